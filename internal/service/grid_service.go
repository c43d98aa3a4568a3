package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/ecomap-backend-go/internal/grid"
	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/repository"
	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// DefaultTaskSizeMeters is the side of a validation task square.
const DefaultTaskSizeMeters = 50.0

// DefaultPreviewSize is the side of a grid preview PNG in pixels.
const DefaultPreviewSize = 512

// GridService handles subdivision of projects into tasks
type GridService struct {
	projects     *ProjectService
	subdivisions *repository.SubdivisionRepository
	annotations  *repository.AnnotationRepository
}

// NewGridService creates a new grid service
func NewGridService(projects *ProjectService, subdivisions *repository.SubdivisionRepository, annotations *repository.AnnotationRepository) *GridService {
	return &GridService{
		projects:     projects,
		subdivisions: subdivisions,
		annotations:  annotations,
	}
}

// GenerateGrid replaces a project's subdivisions with the cells of a
// rows x cols grid over its boundary. It returns the number of cells kept.
func (s *GridService) GenerateGrid(projectID int64, cfg grid.Config) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}

	_, ring, err := s.projects.boundary(projectID)
	if err != nil {
		return 0, err
	}

	cells := grid.Subdivide(ring, cfg)
	if len(cells) == 0 {
		return 0, fmt.Errorf("%w: no cell centre falls inside the boundary", ErrInvalidGrid)
	}

	subs := make([]models.Subdivision, len(cells))
	for i, c := range cells {
		subs[i] = models.Subdivision{Col: c.Col, Row: c.Row, GeometryWKT: c.WKT()}
	}
	if err := s.subdivisions.ReplaceAll(projectID, subs); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"project_id": projectID,
		"rows":       cfg.Rows,
		"cols":       cfg.Cols,
		"cells":      len(cells),
	}).Info("[GridService] Grid generated")
	return len(cells), nil
}

// CreateTasks appends one square task around each point
func (s *GridService) CreateTasks(projectID int64, req models.BatchTasksRequest) (int, error) {
	if _, err := s.projects.GetProject(projectID); err != nil {
		return 0, err
	}

	size := req.SizeMeters
	if size <= 0 {
		size = DefaultTaskSizeMeters
	}

	subs := make([]models.Subdivision, 0, len(req.Points))
	for _, p := range req.Points {
		center := spatial.Point{Lat: p.Lat, Lon: p.Lon}
		if !center.Valid() {
			return 0, fmt.Errorf("%w: task point %v", ErrInvalidGeometry, p)
		}
		subs = append(subs, models.Subdivision{GeometryWKT: spatial.FormatPolygonWKT(spatial.SquareAroundPoint(center, size))})
	}
	if len(subs) == 0 {
		return 0, nil
	}

	if err := s.subdivisions.Append(projectID, subs); err != nil {
		return 0, err
	}
	return len(subs), nil
}

// Preview subdivides a boundary without storing anything
func (s *GridService) Preview(req models.GridPreviewRequest) ([]models.PreviewCell, error) {
	_, cells, err := previewCells(req)
	if err != nil {
		return nil, err
	}

	out := make([]models.PreviewCell, len(cells))
	for i, c := range cells {
		out[i] = models.PreviewCell{
			ID:       c.ID,
			Col:      c.Col,
			Row:      c.Row,
			WKT:      c.WKT(),
			Geometry: spatial.PolygonGeoJSON(c.Ring),
			AreaM2:   c.AreaM2,
			Included: c.Included,
		}
	}
	return out, nil
}

// PreviewPNG draws the boundary and its cells as a PNG
func (s *GridService) PreviewPNG(w io.Writer, req models.GridPreviewRequest) error {
	ring, cells, err := previewCells(req)
	if err != nil {
		return err
	}

	size := req.Size
	if size <= 0 || size > 2048 {
		size = DefaultPreviewSize
	}
	return grid.RenderPreview(w, ring, cells, size)
}

func previewCells(req models.GridPreviewRequest) (spatial.Ring, []grid.Cell, error) {
	cfg := grid.Config{Rows: req.Rows, Cols: req.Cols}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}

	ring, err := spatial.ParsePolygonWKT(req.BoundaryGeom)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return ring, grid.Subdivide(ring, cfg), nil
}

// ListSubdivisions retrieves a project's tasks with GeoJSON geometry
func (s *GridService) ListSubdivisions(projectID int64) ([]models.Subdivision, error) {
	if _, err := s.projects.GetProject(projectID); err != nil {
		return nil, err
	}

	subs, err := s.subdivisions.ListByProject(projectID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if ring, err := spatial.ParsePolygonWKT(subs[i].GeometryWKT); err == nil {
			subs[i].GeometryJSON = spatial.PolygonGeoJSON(ring)
		}
	}
	return subs, nil
}

// NextTask returns the subdivision that most needs another review
func (s *GridService) NextTask(projectID int64) (*models.Subdivision, error) {
	if _, err := s.projects.GetProject(projectID); err != nil {
		return nil, err
	}

	sub, err := s.subdivisions.NextTask(projectID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoTasks
	}
	if ring, err := spatial.ParsePolygonWKT(sub.GeometryWKT); err == nil {
		sub.GeometryJSON = spatial.PolygonGeoJSON(ring)
	}
	return sub, nil
}

// Progress summarises how much of a project has been reviewed
func (s *GridService) Progress(projectID int64) (*models.ProjectProgress, error) {
	if _, err := s.projects.GetProject(projectID); err != nil {
		return nil, err
	}

	subs, err := s.subdivisions.ListByProject(projectID)
	if err != nil {
		return nil, err
	}
	total, contributors, err := s.annotations.CountByProject(projectID)
	if err != nil {
		return nil, err
	}

	progress := &models.ProjectProgress{
		ProjectID:         projectID,
		TotalSubdivisions: len(subs),
		TotalAnnotations:  total,
		Contributors:      contributors,
	}
	if len(subs) == 0 {
		return progress, nil
	}

	completions := make([]float64, len(subs))
	for i, sub := range subs {
		completions[i] = float64(sub.CompletionCount)
		if sub.CompletionCount > 0 {
			progress.CompletedCells++
		}
	}
	progress.CoveragePercent = float64(progress.CompletedCells) / float64(len(subs)) * 100
	progress.AverageCompletions = stat.Mean(completions, nil)

	scale, err := averageScale(subs)
	if err != nil && !errors.Is(err, ErrNoTasks) {
		return nil, err
	}
	progress.AverageTaskScale = scale

	return progress, nil
}

// averageScale is the mean LinearScale of the subdivisions that parse.
func averageScale(subs []models.Subdivision) (float64, error) {
	scales := make([]float64, 0, len(subs))
	for _, sub := range subs {
		ring, err := spatial.ParsePolygonWKT(sub.GeometryWKT)
		if err != nil {
			log.WithError(err).WithField("subdivision_id", sub.ID).Warn("[GridService] Skipping unparsable subdivision")
			continue
		}
		if scale := spatial.LinearScale(ring); scale > 0 {
			scales = append(scales, scale)
		}
	}
	if len(scales) == 0 {
		return 0, ErrNoTasks
	}
	return stat.Mean(scales, nil), nil
}
