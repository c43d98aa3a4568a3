package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/ecomap-backend-go/internal/models"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and returns its ID
func (r *ProjectRepository) Create(p *models.Project) (int64, error) {
	query := `INSERT INTO projects (name, description, nasa_layer_id, date_target, boundary_wkt, mode)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.Exec(query, p.Name, p.Description, p.NASALayerID, p.DateTarget, p.BoundaryWKT, p.Mode)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get project id: %w", err)
	}
	return id, nil
}

// GetByID retrieves a project. It returns nil when the project does not exist.
func (r *ProjectRepository) GetByID(id int64) (*models.Project, error) {
	query := `SELECT id, name, description, nasa_layer_id, date_target, boundary_wkt, mode, created_at
		FROM projects WHERE id = ?`

	var p models.Project
	err := r.db.QueryRow(query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.NASALayerID, &p.DateTarget,
		&p.BoundaryWKT, &p.Mode, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &p, nil
}

// List retrieves projects, newest first
func (r *ProjectRepository) List(limit, offset int) ([]models.Project, error) {
	query := `SELECT id, name, description, nasa_layer_id, date_target, boundary_wkt, mode, created_at
		FROM projects ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.NASALayerID, &p.DateTarget,
			&p.BoundaryWKT, &p.Mode, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}
