package handlers

import (
	"net/http"
	"strings"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/dataset"
	"github.com/Liyulingyue/PaddleLabel/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateProjectRequest represents the request payload for creating a project
type CreateProjectRequest struct {
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	DataDir      string              `json:"data_dir" binding:"required"`
	TaskCategory models.TaskCategory `json:"task_category"`
	LabelFormat  string              `json:"label_format"`
}

// UpdateProjectRequest represents the request payload for updating a project
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DataDir     *string `json:"data_dir"`
	LabelFormat *string `json:"label_format"`
}

// ProjectDetail is a project with its labels and conversion options.
type ProjectDetail struct {
	models.Project
	Labels    []models.Label `json:"labels"`
	TaskCount int64          `json:"task_count"`
	Formats   []string       `json:"formats"`
}

// GetProjects returns all projects
// GET /api/projects
func GetProjects(c *gin.Context) {
	projects, err := currentStore().ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// GetProjectByID returns one project with its labels
// GET /api/projects/:id
func GetProjectByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	s := currentStore()

	p, err := s.GetProject(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	labels, err := s.ListLabels(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := s.CountTasks(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProjectDetail{
		Project:   p,
		Labels:    labels,
		TaskCount: count,
		Formats:   dataset.Formats(p.TaskCategory),
	})
}

// CreateProject creates a project over an existing data directory
// POST /api/projects
func CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if !bindJSON(c, &req, false) {
		return
	}

	p := models.Project{
		Name:         req.Name,
		Description:  req.Description,
		DataDir:      strings.TrimSpace(req.DataDir),
		TaskCategory: req.TaskCategory,
		LabelFormat:  req.LabelFormat,
	}
	if p.TaskCategory == "" {
		p.TaskCategory = models.CategoryDetection
	}
	if p.LabelFormat != "" {
		if _, err := dataset.ResolveFormat(p.TaskCategory, p.LabelFormat); err != nil {
			respondError(c, err)
			return
		}
	}

	if err := currentStore().CreateProject(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProject changes the provided fields of a project
// PUT /api/projects/:id
func UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if !bindJSON(c, &req, false) {
		return
	}

	ctx := c.Request.Context()
	s := currentStore()
	p, err := s.GetProject(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.DataDir != nil {
		p.DataDir = strings.TrimSpace(*req.DataDir)
	}
	if req.LabelFormat != nil {
		if *req.LabelFormat != "" {
			if _, err := dataset.ResolveFormat(p.TaskCategory, *req.LabelFormat); err != nil {
				respondError(c, err)
				return
			}
		}
		p.LabelFormat = *req.LabelFormat
	}
	if p.Name == "" || p.DataDir == "" {
		respondError(c, apperr.New(apperr.CodeInvalid, "name and data_dir cannot be empty"))
		return
	}

	if err := s.UpdateProject(ctx, &p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProject removes a project and everything it owns
// DELETE /api/projects/:id
func DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := currentStore().DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
