package heatmap

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

const (
	tileSize        = 256.0
	mercatorMaxLat  = 85.0511287798
	degreesToRadian = math.Pi / 180
)

// Projector maps a geographic coordinate to pixel coordinates relative to
// the top-left corner of a viewport.
type Projector interface {
	Project(p spatial.Point) r2.Point
}

// Viewport is the visible extent of the host map and its projection.
type Viewport struct {
	Width     int
	Height    int
	Bounds    spatial.BBox
	Projector Projector
}

// Valid reports whether the viewport can be rendered into.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 && v.Projector != nil
}

// WebMercator projects onto the 256px-tile slippy map used by the web
// client. The origin is the viewport's top-left corner.
type WebMercator struct {
	worldSize float64
	origin    r2.Point
}

// NewWebMercatorViewport returns a viewport of the given pixel size centred
// on a coordinate at a (possibly fractional) zoom level.
func NewWebMercatorViewport(center spatial.Point, zoom float64, width, height int) Viewport {
	m := &WebMercator{worldSize: tileSize * math.Exp2(zoom)}
	c := m.world(center)
	m.origin = r2.Point{X: c.X - float64(width)/2, Y: c.Y - float64(height)/2}

	nw := m.unproject(r2.Point{X: 0, Y: 0})
	se := m.unproject(r2.Point{X: float64(width), Y: float64(height)})

	return Viewport{
		Width:  width,
		Height: height,
		Bounds: spatial.BBox{
			MinLat: se.Lat, MaxLat: nw.Lat,
			MinLon: nw.Lon, MaxLon: se.Lon,
		},
		Projector: m,
	}
}

// Project implements Projector.
func (m *WebMercator) Project(p spatial.Point) r2.Point {
	return m.world(p).Sub(m.origin)
}

func (m *WebMercator) world(p spatial.Point) r2.Point {
	lat := math.Max(-mercatorMaxLat, math.Min(mercatorMaxLat, p.Lat))
	sin := math.Sin(lat * degreesToRadian)
	x := (p.Lon + 180) / 360
	y := 0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)
	return r2.Point{X: x * m.worldSize, Y: y * m.worldSize}
}

func (m *WebMercator) unproject(px r2.Point) spatial.Point {
	w := px.Add(m.origin)
	lon := w.X/m.worldSize*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*w.Y/m.worldSize))) / degreesToRadian
	return spatial.Point{Lat: lat, Lon: lon}
}

// Linear maps a bounding box straight onto the pixel grid, north up.
type Linear struct {
	bounds        spatial.BBox
	width, height float64
}

// NewLinearViewport returns a viewport that stretches bounds over
// width x height pixels.
func NewLinearViewport(bounds spatial.BBox, width, height int) Viewport {
	return Viewport{
		Width:     width,
		Height:    height,
		Bounds:    bounds,
		Projector: &Linear{bounds: bounds, width: float64(width), height: float64(height)},
	}
}

// Project implements Projector.
func (l *Linear) Project(p spatial.Point) r2.Point {
	var x, y float64
	if w := l.bounds.Width(); w != 0 {
		x = (p.Lon - l.bounds.MinLon) / w * l.width
	}
	if h := l.bounds.Height(); h != 0 {
		y = (l.bounds.MaxLat - p.Lat) / h * l.height
	}
	return r2.Point{X: x, Y: y}
}
