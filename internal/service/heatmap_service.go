package service

import (
	"bytes"
	"fmt"

	"github.com/apex/log"

	"github.com/jengzang/ecomap-backend-go/internal/heatmap"
	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/repository"
	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// Viewport limits for rendered overlays.
const (
	DefaultViewportSize = 512
	MaxViewportSize     = 2048
	MaxZoom             = 22
)

// HeatmapImage is an encoded overlay ready to be placed on a map.
type HeatmapImage struct {
	Data        []byte
	ContentType string
	Bounds      spatial.BBox
	Stats       models.HeatmapStats
}

// HeatmapService renders annotation density overlays
type HeatmapService struct {
	projects      *ProjectService
	annotations   *repository.AnnotationRepository
	defaultFormat heatmap.Format
}

// NewHeatmapService creates a new heat map service
func NewHeatmapService(projects *ProjectService, annotations *repository.AnnotationRepository, defaultFormat heatmap.Format) *HeatmapService {
	if defaultFormat == "" {
		defaultFormat = heatmap.FormatPNG
	}
	return &HeatmapService{
		projects:      projects,
		annotations:   annotations,
		defaultFormat: defaultFormat,
	}
}

// Render draws the project's annotation density for one viewport.
//
// With a zoom level the viewport is a web mercator view centred on lat/lon
// (the project centroid by default). Without one the viewport is the
// project's bounding box. It returns nil when nothing is drawn.
func (s *HeatmapService) Render(projectID int64, q models.HeatmapQuery) (*HeatmapImage, error) {
	format := s.defaultFormat
	if q.Format != "" {
		f, err := heatmap.ParseFormat(q.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidViewport, err)
		}
		format = f
	}

	width, height := q.Width, q.Height
	if width == 0 {
		width = DefaultViewportSize
	}
	if height == 0 {
		height = DefaultViewportSize
	}
	if width < 0 || height < 0 || width > MaxViewportSize || height > MaxViewportSize {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidViewport, width, height)
	}
	if q.Zoom < 0 || q.Zoom > MaxZoom {
		return nil, fmt.Errorf("%w: zoom %g", ErrInvalidViewport, q.Zoom)
	}

	_, ring, err := s.projects.boundary(projectID)
	if err != nil {
		return nil, err
	}

	vp, err := viewportFor(ring, q, width, height)
	if err != nil {
		return nil, err
	}

	annotations, err := s.annotations.ListByProject(projectID)
	if err != nil {
		return nil, err
	}
	points := weightedPoints(annotations)

	maxMagnitude := q.Max
	if maxMagnitude <= 0 {
		for _, p := range points {
			if p.Magnitude > maxMagnitude {
				maxMagnitude = p.Magnitude
			}
		}
	}

	in := heatmap.Input{Points: points, MaxMagnitude: maxMagnitude, Threshold: q.Threshold}
	stats := models.HeatmapStats{
		Points:       len(points),
		Survivors:    len(heatmap.Survivors(points, maxMagnitude, q.Threshold)),
		MaxMagnitude: maxMagnitude,
		Threshold:    q.Threshold,
	}

	view := heatmap.NewMapView(vp)
	compositor := heatmap.NewCompositor(view, heatmap.WithLogger(log.WithField("project_id", projectID)))
	// The view lives for one request; detaching it tears the compositor down.
	defer view.Detach()

	compositor.Mount(in)
	overlay := compositor.Overlay()
	if overlay == nil {
		log.WithFields(log.Fields{
			"project_id": projectID,
			"points":     stats.Points,
			"survivors":  stats.Survivors,
		}).Debug("[HeatmapService] Nothing to render")
		return nil, nil
	}

	var buf bytes.Buffer
	if err := heatmap.Encode(&buf, overlay.Image, format); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &HeatmapImage{
		Data:        buf.Bytes(),
		ContentType: format.ContentType(),
		Bounds:      overlay.Bounds,
		Stats:       stats,
	}, nil
}

func viewportFor(ring spatial.Ring, q models.HeatmapQuery, width, height int) (heatmap.Viewport, error) {
	if q.Zoom == 0 {
		box, ok := spatial.BoundingBox(ring)
		if !ok {
			return heatmap.Viewport{}, fmt.Errorf("%w: empty boundary", ErrInvalidViewport)
		}
		return heatmap.NewLinearViewport(box, width, height), nil
	}

	center := spatial.Centroid(ring)
	if q.Lat != nil && q.Lon != nil {
		center = spatial.Point{Lat: *q.Lat, Lon: *q.Lon}
	}
	if !center.Valid() || center.Lat < -90 || center.Lat > 90 {
		return heatmap.Viewport{}, fmt.Errorf("%w: centre %v", ErrInvalidViewport, center)
	}
	return heatmap.NewWebMercatorViewport(center, q.Zoom, width, height), nil
}
