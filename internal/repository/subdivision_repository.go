package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/ecomap-backend-go/internal/database"
	"github.com/jengzang/ecomap-backend-go/internal/models"
)

const subdivisionColumns = `id, project_id, seq, grid_col, grid_row, geometry_wkt, completion_count, created_at`

// SubdivisionRepository handles database operations for annotation tasks
type SubdivisionRepository struct {
	db *sql.DB
}

// NewSubdivisionRepository creates a new subdivision repository
func NewSubdivisionRepository(db *sql.DB) *SubdivisionRepository {
	return &SubdivisionRepository{db: db}
}

// ReplaceAll deletes the project's subdivisions and inserts subs in order.
// Seq is assigned from the slice index.
func (r *SubdivisionRepository) ReplaceAll(projectID int64, subs []models.Subdivision) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM subdivisions WHERE project_id = ?", projectID); err != nil {
			return fmt.Errorf("failed to clear subdivisions: %w", err)
		}
		return insertSubdivisions(tx, projectID, 0, subs)
	})
}

// Append inserts subs after the project's existing subdivisions
func (r *SubdivisionRepository) Append(projectID int64, subs []models.Subdivision) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRow("SELECT COALESCE(MAX(seq) + 1, 0) FROM subdivisions WHERE project_id = ?", projectID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to get next seq: %w", err)
		}
		return insertSubdivisions(tx, projectID, next, subs)
	})
}

func insertSubdivisions(tx *sql.Tx, projectID int64, firstSeq int, subs []models.Subdivision) error {
	stmt, err := tx.Prepare(`INSERT INTO subdivisions (project_id, seq, grid_col, grid_row, geometry_wkt)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare subdivision insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range subs {
		if _, err := stmt.Exec(projectID, firstSeq+i, s.Col, s.Row, s.GeometryWKT); err != nil {
			return fmt.Errorf("failed to insert subdivision %d: %w", firstSeq+i, err)
		}
	}
	return nil
}

// ListByProject retrieves a project's subdivisions in enumeration order
func (r *SubdivisionRepository) ListByProject(projectID int64) ([]models.Subdivision, error) {
	query := `SELECT ` + subdivisionColumns + ` FROM subdivisions WHERE project_id = ? ORDER BY seq`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subdivisions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subdivision
	for rows.Next() {
		s, err := scanSubdivision(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}

	return subs, rows.Err()
}

// GetByID retrieves a subdivision. It returns nil when it does not exist.
func (r *SubdivisionRepository) GetByID(id int64) (*models.Subdivision, error) {
	row := r.db.QueryRow(`SELECT `+subdivisionColumns+` FROM subdivisions WHERE id = ?`, id)
	s, err := scanSubdivision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// NextTask returns the least-completed subdivision of a project, lowest seq
// first among ties. It returns nil when the project has none.
func (r *SubdivisionRepository) NextTask(projectID int64) (*models.Subdivision, error) {
	query := `SELECT ` + subdivisionColumns + ` FROM subdivisions
		WHERE project_id = ?
		ORDER BY completion_count ASC, seq ASC
		LIMIT 1`

	s, err := scanSubdivision(r.db.QueryRow(query, projectID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubdivision(row rowScanner) (*models.Subdivision, error) {
	var s models.Subdivision
	err := row.Scan(
		&s.ID, &s.ProjectID, &s.Seq, &s.Col, &s.Row,
		&s.GeometryWKT, &s.CompletionCount, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subdivision: %w", err)
	}
	return &s, nil
}
