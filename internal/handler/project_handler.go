package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/grid"
	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/service"
	"github.com/jengzang/ecomap-backend-go/pkg/response"
)

// ProjectHandler handles HTTP requests for projects and their tasks
type ProjectHandler struct {
	projects *service.ProjectService
	grid     *service.GridService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projects *service.ProjectService, grid *service.GridService) *ProjectHandler {
	return &ProjectHandler{projects: projects, grid: grid}
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	project, err := h.projects.CreateProject(req)
	if err != nil {
		serviceError(c, err, "Failed to create project")
		return
	}

	response.Created(c, project)
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	projects, err := h.projects.ListProjects(limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	response.Success(c, gin.H{
		"projects": projects,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProject handles GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.projects.GetProject(id)
	if err != nil {
		serviceError(c, err, "Failed to get project")
		return
	}

	response.Success(c, project)
}

// GenerateGrid handles POST /api/v1/projects/:id/generate-grid
func (h *ProjectHandler) GenerateGrid(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req models.GenerateGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	count, err := h.grid.GenerateGrid(id, grid.Config{Rows: req.Rows, Cols: req.Cols})
	if err != nil {
		serviceError(c, err, "Failed to generate grid")
		return
	}

	response.Success(c, gin.H{"count": count})
}

// CreateTasks handles POST /api/v1/projects/:id/tasks/batch
func (h *ProjectHandler) CreateTasks(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req models.BatchTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	count, err := h.grid.CreateTasks(id, req)
	if err != nil {
		serviceError(c, err, "Failed to create tasks")
		return
	}

	response.Success(c, gin.H{"count": count})
}

// ListSubdivisions handles GET /api/v1/projects/:id/subdivisions
func (h *ProjectHandler) ListSubdivisions(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	subs, err := h.grid.ListSubdivisions(id)
	if err != nil {
		serviceError(c, err, "Failed to list subdivisions")
		return
	}

	response.Success(c, gin.H{
		"subdivisions": subs,
		"count":        len(subs),
	})
}

// NextTask handles GET /api/v1/projects/:id/tasks/next
func (h *ProjectHandler) NextTask(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	task, err := h.grid.NextTask(id)
	if err != nil {
		serviceError(c, err, "No task available")
		return
	}

	response.Success(c, task)
}

// Progress handles GET /api/v1/projects/:id/progress
func (h *ProjectHandler) Progress(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	progress, err := h.grid.Progress(id)
	if err != nil {
		serviceError(c, err, "Failed to get progress")
		return
	}

	response.Success(c, progress)
}
