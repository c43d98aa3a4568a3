package models

import "time"

// Project modes
const (
	ModeGrid     = "GRID"     // subdivisions generated from the boundary
	ModeValidate = "VALIDATE" // explicit tasks around candidate points
)

// Project is an area of interest split into annotation tasks
type Project struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	NASALayerID  string    `json:"nasa_layer_id,omitempty" db:"nasa_layer_id"` // imagery layer shown to annotators
	DateTarget   string    `json:"date_target,omitempty" db:"date_target"`     // YYYY-MM-DD
	BoundaryWKT  string    `json:"boundary_wkt" db:"boundary_wkt"`
	Mode         string    `json:"mode" db:"mode"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	BoundaryJSON any       `json:"boundary_geom,omitempty" db:"-"` // GeoJSON, filled by the service
}

// CreateProjectRequest is the body of POST /api/v1/projects
type CreateProjectRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	NASALayerID  string `json:"nasa_layer_id"`
	DateTarget   string `json:"date_target"`
	BoundaryGeom string `json:"boundary_geom" binding:"required"` // WKT polygon
	Mode         string `json:"mode"`
}

// GenerateGridRequest is the body of POST /api/v1/projects/:id/generate-grid
type GenerateGridRequest struct {
	Rows int `json:"rows" binding:"required"`
	Cols int `json:"cols" binding:"required"`
}

// TaskPoint is a candidate location for a validation task
type TaskPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BatchTasksRequest is the body of POST /api/v1/projects/:id/tasks/batch
type BatchTasksRequest struct {
	Points     []TaskPoint `json:"points" binding:"required"`
	SizeMeters float64     `json:"size_m"` // square side, 50 when omitted
}

// ProjectProgress summarises annotation coverage of a project
type ProjectProgress struct {
	ProjectID          int64   `json:"project_id"`
	TotalSubdivisions  int     `json:"total_subdivisions"`
	CompletedCells     int     `json:"completed_cells"`
	TotalAnnotations   int     `json:"total_annotations"`
	Contributors       int     `json:"contributors"`
	CoveragePercent    float64 `json:"coverage_percent"`
	AverageCompletions float64 `json:"average_completions"`
	AverageTaskScale   float64 `json:"average_task_scale_m"` // mean LinearScale of subdivisions, metres
}
