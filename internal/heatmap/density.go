package heatmap

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// CellSize is the side of a density grid cell in pixels.
	CellSize = 10

	baseRadius = 30.0
	radiusSpan = 60.0
)

// Field is a density grid over a viewport, normalized to [0,1].
// Values are stored row-major. An empty Field means nothing to draw.
type Field struct {
	Cols     int
	Rows     int
	CellSize int
	Values   []float64
}

// Empty reports whether the field has nothing to render.
func (f Field) Empty() bool {
	return len(f.Values) == 0
}

// At returns the value of grid cell (gx, gy).
func (f Field) At(gx, gy int) float64 {
	return f.Values[gy*f.Cols+gx]
}

// GridSize returns the density grid dimensions for a viewport.
func GridSize(width, height int) (cols, rows int) {
	cols = (width + CellSize - 1) / CellSize
	rows = (height + CellSize - 1) / CellSize
	return cols, rows
}

// KernelRadius returns the influence radius in pixels of a point.
func KernelRadius(intensity float64) float64 {
	return baseRadius + intensity*radiusSpan
}

// BuildField accumulates a Gaussian kernel density estimate of the points
// over the viewport's pixel grid.
//
// Each surviving point adds exp(-d²/2σ²)·intensity to every cell whose
// centre lies within its radius (σ = radius/3), where d is measured in
// pixels after projection. The result is divided by its maximum. The field
// is rebuilt from scratch on every call.
func BuildField(points []WeightedPoint, maxMagnitude, threshold float64, vp Viewport) Field {
	if !vp.Valid() {
		return Field{}
	}

	survivors := Survivors(points, maxMagnitude, threshold)
	if len(survivors) == 0 {
		return Field{}
	}

	cols, rows := GridSize(vp.Width, vp.Height)
	values := make([]float64, cols*rows)
	cs := float64(CellSize)

	for _, p := range survivors {
		px := vp.Projector.Project(p.Location)
		if math.IsNaN(px.X) || math.IsNaN(px.Y) || math.IsInf(px.X, 0) || math.IsInf(px.Y, 0) {
			continue
		}

		radius := KernelRadius(p.Intensity)
		sigma := radius / 3
		twoSigma2 := 2 * sigma * sigma
		radius2 := radius * radius

		minX := math.Max(0, math.Floor((px.X-radius)/cs))
		maxX := math.Min(float64(cols-1), math.Ceil((px.X+radius)/cs))
		minY := math.Max(0, math.Floor((px.Y-radius)/cs))
		maxY := math.Min(float64(rows-1), math.Ceil((px.Y+radius)/cs))
		if minX > maxX || minY > maxY {
			continue
		}

		for gy := int(minY); gy <= int(maxY); gy++ {
			cy := float64(gy)*cs + cs/2
			dy := cy - px.Y
			for gx := int(minX); gx <= int(maxX); gx++ {
				cx := float64(gx)*cs + cs/2
				dx := cx - px.X
				dist2 := dx*dx + dy*dy
				if dist2 > radius2 {
					continue
				}
				values[gy*cols+gx] += math.Exp(-dist2/twoSigma2) * p.Intensity
			}
		}
	}

	maxValue := floats.Max(values)
	if !(maxValue > 0) {
		return Field{}
	}
	for i := range values {
		values[i] /= maxValue
	}

	return Field{Cols: cols, Rows: rows, CellSize: CellSize, Values: values}
}
