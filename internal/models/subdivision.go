package models

import "time"

// Subdivision is one annotation task: a grid cell or a validation square
type Subdivision struct {
	ID              int64     `json:"id" db:"id"`
	ProjectID       int64     `json:"project_id" db:"project_id"`
	Seq             int       `json:"seq" db:"seq"` // enumeration order
	Col             int       `json:"col" db:"grid_col"`
	Row             int       `json:"row" db:"grid_row"`
	GeometryWKT     string    `json:"geometry_wkt" db:"geometry_wkt"`
	CompletionCount int       `json:"completion_count" db:"completion_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	GeometryJSON    any       `json:"geometry,omitempty" db:"-"`
}

// GridPreviewRequest is the body of POST /api/v1/grid/preview
type GridPreviewRequest struct {
	BoundaryGeom string `json:"boundary_geom" binding:"required"`
	Rows         int    `json:"rows" binding:"required"`
	Cols         int    `json:"cols" binding:"required"`
	Size         int    `json:"size"` // PNG side in pixels
}

// PreviewCell is a generated cell that has not been persisted
type PreviewCell struct {
	ID       int     `json:"id"`
	Col      int     `json:"col"`
	Row      int     `json:"row"`
	WKT      string  `json:"wkt"`
	Geometry any     `json:"geometry"`
	AreaM2   float64 `json:"area_m2"`
	Included bool    `json:"included"`
}
