package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmatch/internal/adapter/http/dto"
	"tripmatch/internal/adapter/http/mapper"
	"tripmatch/internal/adapter/http/middleware"
	"tripmatch/internal/adapter/http/validation"
	"tripmatch/internal/core/domain"
	"tripmatch/internal/core/ports"
	"tripmatch/pkg/apierrors"
)

type WorkflowHandler struct {
	workflow ports.WorkflowService
}

func NewWorkflowHandler(workflow ports.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// RequestTransition moves a task to an explicitly named stage. The business
// endpoints (publish, review, complete) cover the usual paths; this one
// serves operational corrections by admins.
func (h *WorkflowHandler) RequestTransition(c *gin.Context) {
	actorID, role, ok := requireActor(c)
	if !ok {
		return
	}
	if role != domain.RoleAdmin {
		lang := middleware.GetLang(c)
		c.JSON(http.StatusForbidden, apierrors.CreateError(http.StatusForbidden, apierrors.MsgNotAuthorized, lang))
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !bindJSON(c, &req) {
		return
	}

	stage, err := validation.BuildTransitionStage(req)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.workflow.Transition(c.Request.Context(), taskID, stage, actorID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTransitionResultItem(result))
}

func (h *WorkflowHandler) GetProgress(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.workflow.GetProgress(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToProgressItem(view))
}

func (h *WorkflowHandler) GetDashboard(c *gin.Context) {
	actorID, role, ok := requireActor(c)
	if !ok {
		return
	}

	view, err := h.workflow.GetDashboard(c.Request.Context(), actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToDashboardItem(view))
}

func (h *WorkflowHandler) CheckDeadline(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	check, err := h.workflow.CheckDeadline(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToDeadlineItem(check))
}
