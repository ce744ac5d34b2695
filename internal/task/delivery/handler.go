package delivery

import (
	"errors"
	"net/http"

	"mutualtasks-backend/internal/task/domain"
	"mutualtasks-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase}
}

// CompleteTaskRequest carries the optional participant-supplied rating
type CompleteTaskRequest struct {
	DifficultyRating *int `json:"difficulty_rating,omitempty"`
}

// CreateTask creates a one-off task or a habit series
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.taskUsecase.CreateTask(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetTasks returns the caller's tasks in one bucket
// GET /api/tasks?bucket=needs_action
func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID := c.GetString("userID")

	bucket, ok := usecase.ParseBucket(c.DefaultQuery("bucket", string(usecase.BucketActive)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown bucket"})
		return
	}

	views, err := h.taskUsecase.ListBucket(userID, bucket)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": views, "total": len(views)})
}

// GetProjectTasks returns the project-wide view of one bucket
// GET /api/projects/:id/tasks?bucket=active
func (h *TaskHandler) GetProjectTasks(c *gin.Context) {
	bucket, ok := usecase.ParseBucket(c.DefaultQuery("bucket", string(usecase.BucketActive)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown bucket"})
		return
	}

	tasks, err := h.taskUsecase.ListProjectBucket(c.Param("id"), bucket)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "total": len(tasks)})
}

// GetTaskByID returns a specific task with the caller's own state
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	userID := c.GetString("userID")

	view, err := h.taskUsecase.GetTask(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateTask patches a task, including the one-off to habit conversion
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := c.GetString("userID")

	var patch usecase.TaskUpdateRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(userID, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CompleteTask marks the caller's own participation completed
// POST /api/tasks/:id/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID := c.GetString("userID")

	var req CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.taskUsecase.CompleteTask(userID, c.Param("id"), req.DifficultyRating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecoverTask restores an archived task for the caller
// POST /api/tasks/:id/recover
func (h *TaskHandler) RecoverTask(c *gin.Context) {
	userID := c.GetString("userID")

	result, err := h.taskUsecase.RecoverTask(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ArchiveTask archives the caller's own participation
// POST /api/tasks/:id/archive
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.taskUsecase.ArchiveTask(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": true})
}

// DeleteTask deletes a task with its statuses and completion records
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.taskUsecase.DeleteTask(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// DeleteSeries deletes every instance of a habit series
// DELETE /api/tasks/series/:seriesId
func (h *TaskHandler) DeleteSeries(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.taskUsecase.DeleteSeries(userID, c.Param("seriesId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetStats returns the caller's derived aggregate
// GET /api/tasks/stats
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID := c.GetString("userID")

	stats, err := h.taskUsecase.Stats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// respondError maps engine errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	var batch *domain.BatchError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrCannotRecover):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyCompleted), errors.Is(err, domain.ErrTaskArchived):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &batch):
		c.JSON(http.StatusInternalServerError, gin.H{"error": batch.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
