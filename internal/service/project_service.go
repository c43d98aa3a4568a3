package service

import (
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/jengzang/ecomap-backend-go/internal/models"
	"github.com/jengzang/ecomap-backend-go/internal/repository"
	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	repo *repository.ProjectRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// CreateProject validates the boundary and stores a new project
func (s *ProjectService) CreateProject(req models.CreateProjectRequest) (*models.Project, error) {
	ring, err := spatial.ParsePolygonWKT(req.BoundaryGeom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}

	mode := strings.ToUpper(strings.TrimSpace(req.Mode))
	switch mode {
	case "":
		mode = models.ModeGrid
	case models.ModeGrid, models.ModeValidate:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, req.Mode)
	}

	p := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		NASALayerID: req.NASALayerID,
		DateTarget:  req.DateTarget,
		BoundaryWKT: spatial.FormatPolygonWKT(ring),
		Mode:        mode,
	}

	id, err := s.repo.Create(p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.BoundaryJSON = spatial.PolygonGeoJSON(ring)

	log.WithFields(log.Fields{"project_id": id, "mode": mode}).Info("[ProjectService] Project created")
	return p, nil
}

// GetProject retrieves a project with its boundary as GeoJSON
func (s *ProjectService) GetProject(id int64) (*models.Project, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if ring, err := spatial.ParsePolygonWKT(p.BoundaryWKT); err == nil {
		p.BoundaryJSON = spatial.PolygonGeoJSON(ring)
	}
	return p, nil
}

// ListProjects retrieves projects, newest first
func (s *ProjectService) ListProjects(limit, offset int) ([]models.Project, error) {
	return s.repo.List(limit, offset)
}

// boundary loads a project's boundary ring
func (s *ProjectService) boundary(id int64) (*models.Project, spatial.Ring, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, ErrNotFound
	}

	ring, err := spatial.ParsePolygonWKT(p.BoundaryWKT)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: project %d boundary: %v", ErrInvalidGeometry, id, err)
	}
	return p, ring, nil
}
