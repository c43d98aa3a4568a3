package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/middleware"
	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/service"
	"github.com/jengzang/ecomap-backend-go/pkg/response"
)

// AnnotationHandler handles HTTP requests for annotations
type AnnotationHandler struct {
	service *service.AnnotationService
}

// NewAnnotationHandler creates a new annotation handler
func NewAnnotationHandler(service *service.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{service: service}
}

// SubmitBatch handles POST /api/v1/annotations/batch
func (h *AnnotationHandler) SubmitBatch(c *gin.Context) {
	var req models.BatchAnnotationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Set by the auth middleware
	userID := c.GetString(middleware.ContextUserKey)
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, "Missing user")
		return
	}

	count, err := h.service.SubmitBatch(userID, req)
	if err != nil {
		serviceError(c, err, "Failed to submit annotations")
		return
	}

	response.Created(c, gin.H{"count": count})
}

// ListAnnotations handles GET /api/v1/projects/:id/annotations
func (h *AnnotationHandler) ListAnnotations(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	annotations, err := h.service.ListAnnotations(id)
	if err != nil {
		serviceError(c, err, "Failed to list annotations")
		return
	}

	response.Success(c, gin.H{
		"annotations": annotations,
		"count":       len(annotations),
	})
}

// Markers handles GET /api/v1/projects/:id/markers
func (h *AnnotationHandler) Markers(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	markers, err := h.service.Markers(id)
	if err != nil {
		serviceError(c, err, "Failed to get markers")
		return
	}

	response.Success(c, gin.H{
		"markers": markers,
		"count":   len(markers),
	})
}
