package models

// HeatmapQuery holds the query parameters of GET /api/v1/projects/:id/heatmap
type HeatmapQuery struct {
	Width     int      `form:"width"`
	Height    int      `form:"height"`
	Zoom      float64  `form:"zoom"`
	Lat       *float64 `form:"lat"` // viewport centre, project centroid when absent
	Lon       *float64 `form:"lon"`
	Threshold float64  `form:"threshold"`
	Max       float64  `form:"max"` // maxMagnitude, largest annotation magnitude when 0
	Format    string   `form:"format"`
}

// HeatmapStats describes a rendered overlay
type HeatmapStats struct {
	Points       int     `json:"points"`
	Survivors    int     `json:"survivors"`
	MaxMagnitude float64 `json:"max_magnitude"`
	Threshold    float64 `json:"threshold"`
}
