package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmatch/internal/adapter/http/dto"
	"tripmatch/internal/adapter/http/mapper"
	"tripmatch/internal/core/ports"
)

type RatingHandler struct {
	flow ports.TaskFlowService
}

func NewRatingHandler(flow ports.TaskFlowService) *RatingHandler {
	return &RatingHandler{flow: flow}
}

func (h *RatingHandler) SubmitRating(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.flow.SubmitRating(c.Request.Context(), taskID, actorID, req.ToUserID, req.Score, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToRatingItem(rating))
}
