package grid

import (
	"errors"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// Grid dimension limits accepted from mission makers.
const (
	MinDimension = 1
	MaxDimension = 30
)

// ErrInvalidConfig is returned when rows or cols fall outside [1,30].
var ErrInvalidConfig = errors.New("rows and cols must be between 1 and 30")

// Config holds the requested subdivision grid.
type Config struct {
	Rows int `json:"rows" form:"rows"`
	Cols int `json:"cols" form:"cols"`
}

// Validate checks the grid dimensions.
func (c Config) Validate() error {
	if c.Rows < MinDimension || c.Rows > MaxDimension ||
		c.Cols < MinDimension || c.Cols > MaxDimension {
		return ErrInvalidConfig
	}
	return nil
}

// Cell is one candidate review task produced by Subdivide.
type Cell struct {
	ID       int           // position among the included cells
	Col      int           // i, longitude index
	Row      int           // j, latitude index
	Ring     spatial.Ring  // axis-aligned, 4 vertices
	Center   spatial.Point
	Included bool
	AreaM2   float64
}

// WKT returns the cell in the boundary exchange format.
func (c Cell) WKT() string {
	return spatial.FormatPolygonWKT(c.Ring)
}

// Subdivide partitions the bounding box of a boundary ring into cols x rows
// rectangles and keeps those whose centre lies inside the ring.
//
// Cells are emitted column-major (longitude index outer, latitude index
// inner); downstream task numbering depends on this order. A cell whose
// centre is inside is kept even when most of its area is outside the ring.
// Rings that are not polygons, degenerate bounding boxes and non-positive
// dimensions produce no cells.
func Subdivide(ring spatial.Ring, cfg Config) []Cell {
	ring = ring.Normalize()
	if len(ring) < 3 || cfg.Rows < 1 || cfg.Cols < 1 {
		return nil
	}

	box, _ := spatial.BoundingBox(ring)
	if box.Width() == 0 || box.Height() == 0 {
		return nil
	}

	stepLon := box.Width() / float64(cfg.Cols)
	stepLat := box.Height() / float64(cfg.Rows)

	cells := make([]Cell, 0, cfg.Rows*cfg.Cols)
	for i := 0; i < cfg.Cols; i++ {
		for j := 0; j < cfg.Rows; j++ {
			cellBox := spatial.BBox{
				MinLon: box.MinLon + float64(i)*stepLon,
				MinLat: box.MinLat + float64(j)*stepLat,
				MaxLon: box.MinLon + float64(i+1)*stepLon,
				MaxLat: box.MinLat + float64(j+1)*stepLat,
			}
			center := spatial.Point{
				Lat: cellBox.MinLat + stepLat/2,
				Lon: cellBox.MinLon + stepLon/2,
			}

			if !spatial.PointInPolygon(center, ring) {
				continue
			}

			cells = append(cells, Cell{
				ID:       len(cells),
				Col:      i,
				Row:      j,
				Ring:     cellBox.Ring(),
				Center:   center,
				Included: true,
				AreaM2:   spatial.RectArea(cellBox),
			})
		}
	}

	return cells
}
