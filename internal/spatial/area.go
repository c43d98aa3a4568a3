package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is Earth's mean radius in meters.
const EarthRadiusMeters = 6371000.0

// RectArea returns the spherical area of a bounding box in square meters.
func RectArea(b BBox) float64 {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(b.MinLat, b.MinLon))
	rect = rect.AddPoint(s2.LatLngFromDegrees(b.MaxLat, b.MaxLon))
	return rect.Area() * EarthRadiusMeters * EarthRadiusMeters
}
