package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
)

// TaskQueue enqueues background work and reports its status.
type TaskQueue interface {
	EnqueueWarm(query string) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// TasksController handles background task endpoints.
type TasksController struct {
	queue TaskQueue
}

func NewTasksController(queue TaskQueue) *TasksController {
	return &TasksController{queue: queue}
}

// WarmSearchRequest is the body of POST /api/search/warm.
type WarmSearchRequest struct {
	Query string `json:"query" form:"query"`
}

// WarmSearch handles POST /api/search/warm
func (tc *TasksController) WarmSearch(c *gin.Context) {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "tasks_disabled", "background tasks are disabled")
		return
	}

	var req WarmSearchRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid_body", "invalid request body")
		return
	}
	if req.Query == "" {
		respondBadRequest(c, "empty_query", "query is required")
		return
	}

	taskID, err := tc.queue.EnqueueWarm(req.Query)
	if err != nil {
		respondInternalError(c, err, "enqueue warm search")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id": taskID,
		"query":   req.Query,
		"message": "task enqueued",
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	if tc.queue == nil {
		respondError(c, http.StatusServiceUnavailable, "tasks_disabled", "background tasks are disabled")
		return
	}

	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
