package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/ecomap-backend-go/internal/database"
	"github.com/jengzang/ecomap-backend-go/internal/models"
)

// AnnotationRepository handles database operations for annotations
type AnnotationRepository struct {
	db *sql.DB
}

// NewAnnotationRepository creates a new annotation repository
func NewAnnotationRepository(db *sql.DB) *AnnotationRepository {
	return &AnnotationRepository{db: db}
}

// SubmitBatch stores the annotations of one task review and bumps the
// task's completion count, atomically.
func (r *AnnotationRepository) SubmitBatch(subdivisionID int64, annotations []models.Annotation) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO annotations (project_id, subdivision_id, user_id, geometry_wkt, label_type)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare annotation insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range annotations {
			if _, err := stmt.Exec(a.ProjectID, subdivisionID, a.UserID, a.GeometryWKT, a.LabelType); err != nil {
				return fmt.Errorf("failed to insert annotation: %w", err)
			}
		}

		result, err := tx.Exec("UPDATE subdivisions SET completion_count = completion_count + 1 WHERE id = ?", subdivisionID)
		if err != nil {
			return fmt.Errorf("failed to update completion count: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("subdivision %d not found", subdivisionID)
		}
		return nil
	})
}

// ListByProject retrieves all annotations of a project in insertion order
func (r *AnnotationRepository) ListByProject(projectID int64) ([]models.Annotation, error) {
	query := `SELECT id, project_id, subdivision_id, user_id, geometry_wkt, label_type, created_at
		FROM annotations WHERE project_id = ? ORDER BY id`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var annotations []models.Annotation
	for rows.Next() {
		var a models.Annotation
		if err := rows.Scan(
			&a.ID, &a.ProjectID, &a.SubdivisionID, &a.UserID,
			&a.GeometryWKT, &a.LabelType, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		annotations = append(annotations, a)
	}

	return annotations, rows.Err()
}

// CountByProject returns the number of annotations and distinct contributors
func (r *AnnotationRepository) CountByProject(projectID int64) (total, contributors int, err error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT user_id) FROM annotations WHERE project_id = ?`
	if err := r.db.QueryRow(query, projectID).Scan(&total, &contributors); err != nil {
		return 0, 0, fmt.Errorf("failed to count annotations: %w", err)
	}
	return total, contributors, nil
}
