package heatmap

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// rampStops are the keypoints of the blue→cyan→green→yellow→red gradient,
// one segment per quarter of the intensity range.
var rampStops = [...]colorful.Color{
	{R: 0, G: 0, B: 1},
	{R: 0, G: 1, B: 1},
	{R: 0, G: 1, B: 0},
	{R: 1, G: 1, B: 0},
	{R: 1, G: 0, B: 0},
}

const rampSegment = 0.25

// Alpha returns the overlay opacity for an intensity: 0.1 at 0, 0.9 at 1.
func Alpha(t float64) float64 {
	return 0.1 + 0.8*clamp01(t)
}

// Ramp maps an intensity in [0,1] to a colour. Out-of-range values are
// clamped.
func Ramp(t float64) color.NRGBA {
	t = clamp01(t)

	seg := int(t / rampSegment)
	if seg > len(rampStops)-2 {
		seg = len(rampStops) - 2
	}
	local := (t - float64(seg)*rampSegment) / rampSegment

	c := rampStops[seg].BlendRgb(rampStops[seg+1], local)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * Alpha(t)))}
}
