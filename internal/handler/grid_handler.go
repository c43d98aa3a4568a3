package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/service"
	"github.com/jengzang/ecomap-backend-go/pkg/response"
)

// GridHandler handles grid previews that are not tied to a project
type GridHandler struct {
	service *service.GridService
}

// NewGridHandler creates a new grid handler
func NewGridHandler(service *service.GridService) *GridHandler {
	return &GridHandler{service: service}
}

// Preview handles POST /api/v1/grid/preview
func (h *GridHandler) Preview(c *gin.Context) {
	var req models.GridPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cells, err := h.service.Preview(req)
	if err != nil {
		serviceError(c, err, "Failed to preview grid")
		return
	}

	response.Success(c, gin.H{
		"cells": cells,
		"count": len(cells),
	})
}

// PreviewPNG handles POST /api/v1/grid/preview.png
func (h *GridHandler) PreviewPNG(c *gin.Context) {
	var req models.GridPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.PreviewPNG(&buf, req); err != nil {
		serviceError(c, err, "Failed to draw grid preview")
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
