package models

import "time"

// NothingFoundLabel marks a task that was reviewed with no findings.
// Its magnitude is zero so it never reaches the heat map.
const NothingFoundLabel = "circle:0"

// Annotation is a labelled point placed by a user inside a task
type Annotation struct {
	ID            int64     `json:"id" db:"id"`
	ProjectID     int64     `json:"project_id" db:"project_id"`
	SubdivisionID int64     `json:"subdivision_id" db:"subdivision_id"`
	UserID        string    `json:"user_id" db:"user_id"`
	GeometryWKT   string    `json:"geometry_wkt" db:"geometry_wkt"`
	LabelType     string    `json:"label_type" db:"label_type"` // "kind:number"
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AnnotationInput is one submitted point
type AnnotationInput struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	LabelType string  `json:"label_type"`
}

// BatchAnnotationsRequest is the body of POST /api/v1/annotations/batch
type BatchAnnotationsRequest struct {
	SubdivisionID int64             `json:"subdivision_id" binding:"required"`
	Annotations   []AnnotationInput `json:"annotations"`
}

// Marker is an annotation drawn as a circle on the map
type Marker struct {
	AnnotationID int64   `json:"annotation_id"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Kind         string  `json:"kind"`
	Magnitude    float64 `json:"magnitude"`
	RadiusMeters float64 `json:"radius_m"`
}
