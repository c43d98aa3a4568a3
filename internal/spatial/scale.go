package spatial

import "math"

const (
	// MetersPerDegree is the equirectangular length of one degree of latitude.
	MetersPerDegree = 111000.0

	// MaxScale is the upper bound of the magnitude slider reviewers use.
	MaxScale = 50

	// minSpanDegrees floors degenerate bounding-box dimensions.
	minSpanDegrees = 1e-9

	// metersPerDegreeSquare is used when building task squares around points.
	metersPerDegreeSquare = 111320.0
)

// ExtentMeters converts the bounding box of a ring into approximate
// east-west and north-south lengths in meters. Longitude is corrected by the
// cosine of the box's mid latitude; there is no ellipsoid correction.
// Zero spans are floored at a tiny positive value so results stay finite.
func ExtentMeters(ring Ring) (widthMeters, heightMeters float64) {
	box, ok := BoundingBox(ring.Normalize())
	if !ok {
		return 0, 0
	}

	widthDeg := math.Max(box.Width(), minSpanDegrees)
	heightDeg := math.Max(box.Height(), minSpanDegrees)
	avgLat := (box.MinLat + box.MaxLat) / 2 * math.Pi / 180

	widthMeters = widthDeg * MetersPerDegree * math.Cos(avgLat)
	heightMeters = heightDeg * MetersPerDegree
	return widthMeters, heightMeters
}

// LinearScale returns the characteristic scale of a region: the smaller of
// its width and height in meters. Rings that are not polygons yield 0.
func LinearScale(ring Ring) float64 {
	if !ring.Valid() {
		return 0
	}
	w, h := ExtentMeters(ring)
	return math.Min(w, h)
}

// RadiusMeters converts a magnitude into a marker radius so that the largest
// magnitude spans about a fifth of the characteristic scale.
func RadiusMeters(magnitude, scale float64) float64 {
	return magnitude * scale / (MaxScale * 5)
}

// SquareAroundPoint returns a square ring of the given side length centred
// on a point. The longitude offset is widened by 1/cos(lat).
func SquareAroundPoint(center Point, sizeMeters float64) Ring {
	offset := (sizeMeters / 2) / metersPerDegreeSquare
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	offsetLon := offset / cosLat

	return BBox{
		MinLat: center.Lat - offset,
		MaxLat: center.Lat + offset,
		MinLon: center.Lon - offsetLon,
		MaxLon: center.Lon + offsetLon,
	}.Ring()
}
