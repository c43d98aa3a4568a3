package grid

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

var unitSquare = spatial.Ring{
	{Lat: 0, Lon: 0},
	{Lat: 0, Lon: 1},
	{Lat: 1, Lon: 1},
	{Lat: 1, Lon: 0},
}

// triangle covers the lower-right half of the unit square.
var triangle = spatial.Ring{
	{Lat: 0, Lon: 0},
	{Lat: 0, Lon: 1},
	{Lat: 1, Lon: 1},
}

func TestSubdivideSingleCell(t *testing.T) {
	cells := Subdivide(unitSquare, Config{Rows: 1, Cols: 1})
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}

	c := cells[0]
	if !c.Included {
		t.Error("cell should be marked included")
	}
	if c.Center != (spatial.Point{Lat: 0.5, Lon: 0.5}) {
		t.Errorf("centre = %+v, want (0.5, 0.5)", c.Center)
	}
	if len(c.Ring) != 4 {
		t.Errorf("cell ring has %d vertices, want 4", len(c.Ring))
	}
	if c.AreaM2 <= 0 {
		t.Errorf("area = %v, want > 0", c.AreaM2)
	}
}

func TestSubdivideCountBound(t *testing.T) {
	rings := map[string]spatial.Ring{
		"square":   unitSquare,
		"closed":   unitSquare.Closed(),
		"triangle": triangle,
	}

	for name, ring := range rings {
		for rows := 1; rows <= 12; rows += 3 {
			for cols := 1; cols <= 12; cols += 4 {
				cells := Subdivide(ring, Config{Rows: rows, Cols: cols})
				if len(cells) > rows*cols {
					t.Errorf("%s %dx%d: %d cells > %d", name, rows, cols, len(cells), rows*cols)
				}
			}
		}
	}
}

func TestSubdivideFullSquare(t *testing.T) {
	cells := Subdivide(unitSquare, Config{Rows: 3, Cols: 4})
	if len(cells) != 12 {
		t.Fatalf("expected all 12 cells, got %d", len(cells))
	}

	// Column-major order: col is the outer loop, row the inner one.
	for idx, c := range cells {
		if c.ID != idx {
			t.Errorf("cell %d has ID %d", idx, c.ID)
		}
		if c.Col != idx/3 || c.Row != idx%3 {
			t.Errorf("cell %d at col %d row %d, want col %d row %d", idx, c.Col, c.Row, idx/3, idx%3)
		}
	}

	first := cells[0].Ring
	if first[0] != (spatial.Point{Lat: 0, Lon: 0}) || first[2] != (spatial.Point{Lat: 1.0 / 3, Lon: 0.25}) {
		t.Errorf("first cell ring = %v", first)
	}
}

func TestSubdivideTriangleKeepsCentresInside(t *testing.T) {
	cells := Subdivide(triangle, Config{Rows: 4, Cols: 4})
	if len(cells) == 0 || len(cells) >= 16 {
		t.Fatalf("expected a partial grid, got %d cells", len(cells))
	}
	for _, c := range cells {
		if !spatial.PointInPolygon(c.Center, triangle) {
			t.Errorf("cell %d centre %+v outside triangle", c.ID, c.Center)
		}
	}
}

func TestSubdivideDegenerate(t *testing.T) {
	testCases := []struct {
		name string
		ring spatial.Ring
		cfg  Config
	}{
		{"collinear", spatial.Ring{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}, Config{Rows: 2, Cols: 2}},
		{"two vertices", spatial.Ring{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}}, Config{Rows: 2, Cols: 2}},
		{"empty", nil, Config{Rows: 2, Cols: 2}},
		{"zero rows", unitSquare, Config{Rows: 0, Cols: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if cells := Subdivide(tc.ring, tc.cfg); len(cells) != 0 {
				t.Errorf("expected no cells, got %d", len(cells))
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		cfg   Config
		valid bool
	}{
		{Config{Rows: 1, Cols: 1}, true},
		{Config{Rows: 30, Cols: 30}, true},
		{Config{Rows: 0, Cols: 5}, false},
		{Config{Rows: 5, Cols: 31}, false},
	}

	for _, tc := range testCases {
		err := tc.cfg.Validate()
		if (err == nil) != tc.valid {
			t.Errorf("Validate(%+v) = %v, want valid=%v", tc.cfg, err, tc.valid)
		}
	}
}

func TestCellWKT(t *testing.T) {
	cells := Subdivide(unitSquare, Config{Rows: 1, Cols: 1})
	want := "POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))"
	if got := cells[0].WKT(); got != want {
		t.Errorf("WKT() = %s, want %s", got, want)
	}
}

func TestRenderPreview(t *testing.T) {
	var buf bytes.Buffer
	cells := Subdivide(triangle, Config{Rows: 5, Cols: 5})
	if err := RenderPreview(&buf, triangle, cells, 128); err != nil {
		t.Fatalf("RenderPreview() error: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("image size = %v, want 128x128", b)
	}
}
