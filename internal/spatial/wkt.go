package spatial

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrNotPolygon is returned when a WKT string does not hold a polygon.
	ErrNotPolygon = errors.New("geometry is not a polygon")
	// ErrNotPoint is returned when a WKT string does not hold a point.
	ErrNotPoint = errors.New("geometry is not a point")
)

// ParsePolygonWKT parses the outer ring of a WKT polygon. The ring may be
// closed or open; the result is normalised.
func ParsePolygonWKT(s string) (Ring, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("failed to parse wkt: %w", err)
	}

	poly, ok := g.(orb.Polygon)
	if !ok || len(poly) == 0 {
		return nil, ErrNotPolygon
	}

	ring := RingFromOrb(poly[0])
	if !ring.Valid() {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(ring))
	}
	return ring, nil
}

// ParsePointWKT parses a WKT point.
func ParsePointWKT(s string) (Point, error) {
	g, err := wkt.Unmarshal(strings.TrimSpace(s))
	if err != nil {
		return Point{}, fmt.Errorf("failed to parse wkt: %w", err)
	}

	p, ok := g.(orb.Point)
	if !ok {
		return Point{}, ErrNotPoint
	}
	return Point{Lat: p.Lat(), Lon: p.Lon()}, nil
}

// RingFromOrb converts an orb ring ([lng, lat] pairs) into a normalised Ring.
func RingFromOrb(r orb.Ring) Ring {
	ring := make(Ring, 0, len(r))
	for _, p := range r {
		ring = append(ring, Point{Lat: p.Lat(), Lon: p.Lon()})
	}
	return ring.Normalize()
}

// Orb converts the ring into an explicitly closed orb ring.
func (r Ring) Orb() orb.Ring {
	closed := r.Closed()
	out := make(orb.Ring, 0, len(closed))
	for _, p := range closed {
		out = append(out, orb.Point{p.Lon, p.Lat})
	}
	return out
}

// FormatPolygonWKT writes the boundary exchange format
// POLYGON((lng lat, lng lat, ..., lng lat)) with the first vertex repeated last.
func FormatPolygonWKT(r Ring) string {
	closed := r.Closed()
	pairs := make([]string, len(closed))
	for i, p := range closed {
		pairs[i] = formatCoord(p.Lon) + " " + formatCoord(p.Lat)
	}
	return "POLYGON((" + strings.Join(pairs, ", ") + "))"
}

// FormatPointWKT writes POINT(lng lat).
func FormatPointWKT(p Point) string {
	return "POINT(" + formatCoord(p.Lon) + " " + formatCoord(p.Lat) + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PolygonGeoJSON returns the ring as a GeoJSON polygon geometry.
func PolygonGeoJSON(r Ring) *geojson.Geometry {
	return geojson.NewGeometry(orb.Polygon{r.Orb()})
}

// PointGeoJSON returns the point as a GeoJSON point geometry.
func PointGeoJSON(p Point) *geojson.Geometry {
	return geojson.NewGeometry(orb.Point{p.Lon, p.Lat})
}
