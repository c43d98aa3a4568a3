package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		label string
		want  float64
		ok    bool
	}{
		{"circle:25", 25, true},
		{"circle:12px", 12, true},
		{"circle", DefaultMagnitude, true},
		{"circle:", DefaultMagnitude, true},
		{"circle:0", 0, false},
		{"circle:-4", 0, false},
		{"circle:abc", 0, false},
		{"", 0, false},
		{"square:7:extra", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseMagnitude(tt.label)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLabelKind(t *testing.T) {
	assert.Equal(t, "circle", LabelKind("circle:10"))
	assert.Equal(t, "square", LabelKind("square"))
	assert.Equal(t, "", LabelKind(""))
}

func TestIntensity_EndToEndThresholds(t *testing.T) {
	mags := []float64{10, 20, 30}

	t.Run("threshold 0 keeps raw intensities", func(t *testing.T) {
		want := []float64{1.0 / 3, 2.0 / 3, 1}
		for i, m := range mags {
			assert.InDelta(t, want[i], Intensity(m, 30, 0), 1e-9)
		}
	})

	t.Run("threshold 0.5 drops and stretches", func(t *testing.T) {
		assert.Equal(t, 0.0, Intensity(10, 30, 0.5))
		assert.InDelta(t, 1.0/3, Intensity(20, 30, 0.5), 1e-9)
		assert.InDelta(t, 1.0, Intensity(30, 30, 0.5), 1e-9)
	})
}

func TestIntensity_Edges(t *testing.T) {
	assert.Equal(t, 1.0, Intensity(60, 30, 0), "raw intensity clamps at 1")
	assert.Equal(t, 0.0, Intensity(30, 30, 1), "threshold 1 hides everything")
	assert.Equal(t, 0.0, Intensity(10, 0, 0), "non-positive max")
	assert.Equal(t, 0.0, Intensity(math.NaN(), 30, 0))
	assert.Equal(t, 0.0, Intensity(-5, 30, 0))
	assert.InDelta(t, 1.0/3, Intensity(10, 30, -2), 1e-9, "negative threshold clamps to 0")
}

func TestSurvivors_ThresholdIsMonotone(t *testing.T) {
	var points []WeightedPoint
	magnitude := make(map[spatial.Point]float64)
	for i := 1; i <= 40; i++ {
		p := WeightedPoint{
			Location:  spatial.Point{Lat: float64(i) / 100, Lon: 0},
			Magnitude: float64((i*17)%40 + 1),
		}
		points = append(points, p)
		magnitude[p.Location] = p.Magnitude
	}

	prev := make(map[spatial.Point]bool)
	for _, p := range points {
		prev[p.Location] = true
	}

	for k := 0; k <= 20; k++ {
		th := float64(k) / 20
		cur := make(map[spatial.Point]bool)
		for _, s := range Survivors(points, 40, th) {
			cur[s.Location] = true
			assert.True(t, prev[s.Location], "threshold %.2f revived %v", th, s.Location)
			assert.Greater(t, magnitude[s.Location]/40, th, "threshold %.2f kept %v", th, s.Location)
		}
		for loc, m := range magnitude {
			if m/40 > th {
				assert.True(t, cur[loc], "threshold %.2f dropped %v", th, loc)
			}
		}
		prev = cur
	}
	assert.Empty(t, prev)
}

func TestSurvivors_SkipsInvalidLocations(t *testing.T) {
	points := []WeightedPoint{
		{Location: spatial.Point{Lat: 10, Lon: 10}, Magnitude: 5},
		{Location: spatial.Point{Lat: math.NaN(), Lon: 10}, Magnitude: 5},
		{Location: spatial.Point{Lat: 10, Lon: math.Inf(1)}, Magnitude: 5},
	}

	got := Survivors(points, 10, 0)
	require.Len(t, got, 1)
	assert.Equal(t, 0.5, got[0].Intensity)
}
