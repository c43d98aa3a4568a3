package heatmap

import (
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// DefaultMagnitude applies to labels without a numeric suffix.
const DefaultMagnitude = 10

// WeightedPoint is an annotation location with its magnitude.
type WeightedPoint struct {
	Location  spatial.Point
	Magnitude float64
}

// LabelKind returns the part of a "kind:number" label before the colon.
func LabelKind(label string) string {
	kind, _, _ := strings.Cut(label, ":")
	return kind
}

// ParseMagnitude extracts the magnitude from a "kind:number" label.
//
// The second colon-separated field is read as a base-10 integer prefix
// ("12px" reads as 12). A missing or empty field yields DefaultMagnitude.
// ok is false for an empty label, for a field with no leading digits and
// for values that are not positive; such annotations never enter density
// computations.
func ParseMagnitude(label string) (magnitude float64, ok bool) {
	if label == "" {
		return 0, false
	}

	fields := strings.Split(label, ":")
	if len(fields) < 2 || fields[1] == "" {
		return DefaultMagnitude, true
	}

	v, ok := leadingInt(fields[1])
	if !ok || !validMagnitude(v) {
		return 0, false
	}
	return v, true
}

// leadingInt parses an optionally signed run of decimal digits at the start
// of s, after any leading whitespace.
func leadingInt(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func validMagnitude(m float64) bool {
	return m > 0 && !math.IsInf(m, 0)
}
