package delivery

import (
	"errors"
	"net/http"

	"mutualtasks-backend/internal/project/usecase"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectUsecase usecase.ProjectUsecase
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectUsecase usecase.ProjectUsecase) *ProjectHandler {
	return &ProjectHandler{projectUsecase: projectUsecase}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type AddParticipantRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CreateProject creates a new project
// POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID := c.GetString("userID")

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectUsecase.CreateProject(userID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, project)
}

// ListProjects returns the caller's projects
// GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID := c.GetString("userID")

	projects, err := h.projectUsecase.ListProjects(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject returns one project the caller belongs to
// GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID := c.GetString("userID")

	project, err := h.projectUsecase.GetProject(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// AddParticipant invites a user by email
// POST /api/projects/:id/participants
func (h *ProjectHandler) AddParticipant(c *gin.Context) {
	userID := c.GetString("userID")

	var req AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.projectUsecase.AddParticipant(userID, c.Param("id"), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": true})
}

// RemoveParticipant soft-removes a member
// DELETE /api/projects/:id/participants/:userId
func (h *ProjectHandler) RemoveParticipant(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.projectUsecase.RemoveParticipant(userID, c.Param("id"), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
