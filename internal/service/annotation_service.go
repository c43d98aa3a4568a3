package service

import (
	"fmt"

	"github.com/apex/log"

	"github.com/jengzang/ecomap-backend-go/internal/heatmap"
	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/repository"
	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// DefaultMaxAnnotationsPerTask limits one task review.
const DefaultMaxAnnotationsPerTask = 5

// AnnotationService handles task reviews
type AnnotationService struct {
	projects     *ProjectService
	subdivisions *repository.SubdivisionRepository
	repo         *repository.AnnotationRepository
	maxPerTask   int
}

// NewAnnotationService creates a new annotation service. maxPerTask <= 0
// selects DefaultMaxAnnotationsPerTask.
func NewAnnotationService(projects *ProjectService, subdivisions *repository.SubdivisionRepository, repo *repository.AnnotationRepository, maxPerTask int) *AnnotationService {
	if maxPerTask <= 0 {
		maxPerTask = DefaultMaxAnnotationsPerTask
	}
	return &AnnotationService{
		projects:     projects,
		subdivisions: subdivisions,
		repo:         repo,
		maxPerTask:   maxPerTask,
	}
}

// SubmitBatch records one user's review of a task.
//
// Every annotation must lie inside the task area. An empty batch means the
// user found nothing; it is stored as a NothingFoundLabel annotation on the
// task's first vertex so the review still counts.
func (s *AnnotationService) SubmitBatch(userID string, req models.BatchAnnotationsRequest) (int, error) {
	if len(req.Annotations) > s.maxPerTask {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyAnnotations, len(req.Annotations), s.maxPerTask)
	}

	task, err := s.subdivisions.GetByID(req.SubdivisionID)
	if err != nil {
		return 0, err
	}
	if task == nil {
		return 0, ErrNotFound
	}

	ring, err := spatial.ParsePolygonWKT(task.GeometryWKT)
	if err != nil {
		return 0, fmt.Errorf("%w: task %d: %v", ErrInvalidGeometry, task.ID, err)
	}

	var batch []models.Annotation
	for i, in := range req.Annotations {
		p := spatial.Point{Lat: in.Lat, Lon: in.Lon}
		if !p.Valid() || !spatial.PointInPolygon(p, ring) {
			return 0, fmt.Errorf("%w: annotation %d at (%g, %g)", ErrOutsideTask, i, in.Lat, in.Lon)
		}
		batch = append(batch, models.Annotation{
			ProjectID:   task.ProjectID,
			UserID:      userID,
			GeometryWKT: spatial.FormatPointWKT(p),
			LabelType:   in.LabelType,
		})
	}

	if len(batch) == 0 {
		batch = append(batch, models.Annotation{
			ProjectID:   task.ProjectID,
			UserID:      userID,
			GeometryWKT: spatial.FormatPointWKT(ring.Normalize()[0]),
			LabelType:   models.NothingFoundLabel,
		})
	}

	if err := s.repo.SubmitBatch(task.ID, batch); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"subdivision_id": task.ID,
		"user_id":        userID,
		"annotations":    len(req.Annotations),
	}).Info("[AnnotationService] Task reviewed")
	return len(batch), nil
}

// ListAnnotations retrieves all annotations of a project
func (s *AnnotationService) ListAnnotations(projectID int64) ([]models.Annotation, error) {
	if _, err := s.projects.GetProject(projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(projectID)
}

// Markers returns the project's annotations as circles sized by magnitude
// relative to the average task scale. Annotations without a usable
// magnitude are left out.
func (s *AnnotationService) Markers(projectID int64) ([]models.Marker, error) {
	annotations, err := s.ListAnnotations(projectID)
	if err != nil {
		return nil, err
	}

	subs, err := s.subdivisions.ListByProject(projectID)
	if err != nil {
		return nil, err
	}
	scale, err := averageScale(subs)
	if err != nil {
		// No tasks to measure against; fall back to the boundary.
		_, ring, berr := s.projects.boundary(projectID)
		if berr != nil {
			return nil, berr
		}
		scale = spatial.LinearScale(ring)
	}

	markers := make([]models.Marker, 0, len(annotations))
	for _, a := range annotations {
		mag, ok := heatmap.ParseMagnitude(a.LabelType)
		if !ok {
			continue
		}
		p, err := spatial.ParsePointWKT(a.GeometryWKT)
		if err != nil {
			log.WithError(err).WithField("annotation_id", a.ID).Warn("[AnnotationService] Skipping unparsable annotation")
			continue
		}
		markers = append(markers, models.Marker{
			AnnotationID: a.ID,
			Lat:          p.Lat,
			Lon:          p.Lon,
			Kind:         heatmap.LabelKind(a.LabelType),
			Magnitude:    mag,
			RadiusMeters: spatial.RadiusMeters(mag, scale),
		})
	}
	return markers, nil
}

// weightedPoints converts annotations into heat map input, skipping those
// without a usable location or magnitude.
func weightedPoints(annotations []models.Annotation) []heatmap.WeightedPoint {
	points := make([]heatmap.WeightedPoint, 0, len(annotations))
	for _, a := range annotations {
		mag, ok := heatmap.ParseMagnitude(a.LabelType)
		if !ok {
			continue
		}
		p, err := spatial.ParsePointWKT(a.GeometryWKT)
		if err != nil {
			continue
		}
		points = append(points, heatmap.WeightedPoint{Location: p, Magnitude: mag})
	}
	return points
}
