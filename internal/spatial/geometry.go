package spatial

import "math"

// Point represents a geographic coordinate in degrees.
// Distance math in this package treats it as a point on a flat plane.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether both coordinates are finite.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) &&
		!math.IsInf(p.Lat, 0) && !math.IsInf(p.Lon, 0)
}

// Ring is an ordered polygon boundary. It is implicitly closed: callers may
// or may not repeat the first vertex as the last one.
type Ring []Point

// Normalize returns the ring without a repeated closing vertex.
func (r Ring) Normalize() Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

// Closed returns a copy of the ring that ends with its first vertex.
func (r Ring) Closed() Ring {
	n := r.Normalize()
	if len(n) == 0 {
		return nil
	}
	out := make(Ring, len(n)+1)
	copy(out, n)
	out[len(n)] = n[0]
	return out
}

// Valid reports whether the ring describes a polygon: at least 3 vertices
// once consecutive repeats are collapsed.
func (r Ring) Valid() bool {
	n := r.Normalize()
	distinct := 0
	for i, p := range n {
		if i > 0 && p == n[i-1] {
			continue
		}
		distinct++
	}
	// The ring wraps around, so a trailing run equal to the first vertex
	// collapses into it.
	if distinct > 1 && n[len(n)-1] == n[0] {
		distinct--
	}
	return distinct >= 3
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Width returns the longitude span in degrees.
func (b BBox) Width() float64 { return b.MaxLon - b.MinLon }

// Height returns the latitude span in degrees.
func (b BBox) Height() float64 { return b.MaxLat - b.MinLat }

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// Ring returns the four corners counter-clockwise from the south-west one.
func (b BBox) Ring() Ring {
	return Ring{
		{Lat: b.MinLat, Lon: b.MinLon},
		{Lat: b.MinLat, Lon: b.MaxLon},
		{Lat: b.MaxLat, Lon: b.MaxLon},
		{Lat: b.MaxLat, Lon: b.MinLon},
	}
}

// BoundingBox calculates the bounding box of a set of points.
// ok is false for an empty set.
func BoundingBox(points []Point) (box BBox, ok bool) {
	if len(points) == 0 {
		return BBox{}, false
	}

	box = BBox{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}

	for _, p := range points[1:] {
		if p.Lat < box.MinLat {
			box.MinLat = p.Lat
		}
		if p.Lat > box.MaxLat {
			box.MaxLat = p.Lat
		}
		if p.Lon < box.MinLon {
			box.MinLon = p.Lon
		}
		if p.Lon > box.MaxLon {
			box.MaxLon = p.Lon
		}
	}

	return box, true
}

// Centroid calculates the vertex centroid of a ring.
func Centroid(ring Ring) Point {
	points := ring.Normalize()
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// PointInPolygon checks if a point is inside a polygon using ray casting.
//
// A horizontal ray is cast from the point and the result toggles on every
// crossed edge. Points lying exactly on an edge are classified by whatever the
// strict inequality yields; that bias is known and kept. Rings with fewer
// than three vertices are not polygons and always return false.
func PointInPolygon(point Point, ring Ring) bool {
	polygon := ring.Normalize()
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		if ((polygon[i].Lat > point.Lat) != (polygon[j].Lat > point.Lat)) &&
			(point.Lon < (polygon[j].Lon-polygon[i].Lon)*(point.Lat-polygon[i].Lat)/(polygon[j].Lat-polygon[i].Lat)+polygon[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}
