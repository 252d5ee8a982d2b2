package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmatch/internal/adapter/http/dto"
	"tripmatch/internal/adapter/http/mapper"
	"tripmatch/internal/adapter/http/validation"
	"tripmatch/internal/core/ports"
)

type TaskHandler struct {
	flow ports.TaskFlowService
}

func NewTaskHandler(flow ports.TaskFlowService) *TaskHandler {
	return &TaskHandler{flow: flow}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := validation.BuildCreateTaskInput(req)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.flow.CreateTask(c.Request.Context(), actorID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToTaskItem(task))
}

func (h *TaskHandler) PublishTask(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.flow.PublishTask(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTransitionResultItem(result))
}

func (h *TaskHandler) CancelTask(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CancelTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.flow.CancelTask(c.Request.Context(), taskID, actorID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTransitionResultItem(result))
}

func (h *TaskHandler) CompleteTask(c *gin.Context) {
	actorID, _, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.flow.CompleteTask(c.Request.Context(), taskID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTransitionResultItem(result))
}
