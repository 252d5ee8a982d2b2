package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmatch/internal/adapter/http/dto"
	"tripmatch/internal/adapter/http/mapper"
	"tripmatch/internal/adapter/http/validation"
	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
)

type ApplicationHandler struct {
	flow ports.TaskFlowService
}

func NewApplicationHandler(flow ports.TaskFlowService) *ApplicationHandler {
	return &ApplicationHandler{flow: flow}
}

func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	application, err := h.flow.SubmitApplication(c.Request.Context(), taskID, actorID, validation.BuildSubmitApplicationInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToApplicationItem(application))
}

func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.flow.ReviewApplication(c.Request.Context(), applicationID, actorID, domain.ReviewDecision(req.Decision), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ApplicationHandler) SubmitWork(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitWorkRequest
	if !bindJSON(c, &req) {
		return
	}

	asset, err := h.flow.SubmitWork(c.Request.Context(), taskID, actorID, validation.BuildSubmitWorkInput(req))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToWorkAssetItem(asset))
}

func (h *ApplicationHandler) ReviewWork(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReviewWorkRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.flow.ReviewWork(c.Request.Context(), taskID, actorID, req.AssetID, domain.ReviewDecision(req.Decision), req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
