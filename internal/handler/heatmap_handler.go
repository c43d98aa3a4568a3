package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/service"
	"github.com/jengzang/ecomap-backend-go/pkg/response"
)

// HeatmapHandler serves annotation density overlays
type HeatmapHandler struct {
	service *service.HeatmapService
}

// NewHeatmapHandler creates a new heat map handler
func NewHeatmapHandler(service *service.HeatmapService) *HeatmapHandler {
	return &HeatmapHandler{service: service}
}

// GetHeatmap handles GET /api/v1/projects/:id/heatmap
//
// The overlay image is written as the body; its geographic bounds go in
// X-Overlay-Bounds as "minLon,minLat,maxLon,maxLat". 204 means nothing
// was drawn.
func (h *HeatmapHandler) GetHeatmap(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var q models.HeatmapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	img, err := h.service.Render(id, q)
	if err != nil {
		serviceError(c, err, "Failed to render heatmap")
		return
	}
	if img == nil {
		c.Status(http.StatusNoContent)
		return
	}

	b := img.Bounds
	c.Header("X-Overlay-Bounds", fmt.Sprintf("%g,%g,%g,%g", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat))
	c.Header("X-Heatmap-Survivors", fmt.Sprint(img.Stats.Survivors))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}
