package heatmap

import (
	"math"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// IntensePoint is a point that survived filtering, with its weight in (0,1].
type IntensePoint struct {
	Location  spatial.Point
	Intensity float64
}

// clamp01 limits v to [0,1]; NaN maps to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Intensity maps a magnitude to its normalized intensity.
//
// The raw intensity magnitude/maxMagnitude is clamped to [0,1] and then
// remapped above the threshold: values at or below it become 0 and values
// above it are stretched over the whole [0,1] range. A threshold of 1 (or
// more) hides everything. Invalid magnitudes or a non-positive maximum give 0.
func Intensity(magnitude, maxMagnitude, threshold float64) float64 {
	if !validMagnitude(magnitude) || !(maxMagnitude > 0) {
		return 0
	}

	raw := clamp01(magnitude / maxMagnitude)
	floor := clamp01(threshold)
	if floor >= 1 {
		return 0
	}
	return clamp01((raw - floor) / (1 - floor))
}

// Survivors applies Intensity to every point and drops those that end up
// with no weight. Input order is kept.
func Survivors(points []WeightedPoint, maxMagnitude, threshold float64) []IntensePoint {
	out := make([]IntensePoint, 0, len(points))
	for _, p := range points {
		if !p.Location.Valid() {
			continue
		}
		v := Intensity(p.Magnitude, maxMagnitude, threshold)
		if v <= 0 {
			continue
		}
		out = append(out, IntensePoint{Location: p.Location, Intensity: v})
	}
	return out
}
