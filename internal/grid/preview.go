package grid

import (
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

const previewPadding = 24.0

var (
	boundaryStroke = color.RGBA{203, 26, 26, 255}
	boundaryFill   = color.RGBA{203, 26, 26, 25}
	cellStroke     = color.RGBA{59, 130, 246, 255}
	cellFill       = color.RGBA{59, 130, 246, 25}
)

// RenderPreview draws the boundary ring and the given cells onto a
// size x size PNG. The drawing is equirectangular, with longitude
// compressed by the cosine of the mid latitude.
func RenderPreview(w io.Writer, boundary spatial.Ring, cells []Cell, size int) error {
	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	boundary = boundary.Normalize()
	box, ok := spatial.BoundingBox(boundary)
	if !ok || len(boundary) < 3 {
		return dc.EncodePNG(w)
	}

	toPixel := previewTransform(box, float64(size))

	dc.SetLineWidth(1)
	dc.SetDash(4)
	for _, c := range cells {
		dc.SetColor(cellStroke)
		dc.SetFillStyle(gg.NewSolidPattern(cellFill))
		drawRing(dc, c.Ring, toPixel)
	}

	dc.SetDash()
	dc.SetLineWidth(3)
	dc.SetColor(boundaryStroke)
	dc.SetFillStyle(gg.NewSolidPattern(boundaryFill))
	drawRing(dc, boundary, toPixel)

	return dc.EncodePNG(w)
}

func previewTransform(box spatial.BBox, size float64) func(spatial.Point) (float64, float64) {
	kx := math.Cos(box.Center().Lat * math.Pi / 180)
	width := math.Max(box.Width()*kx, 1e-12)
	height := math.Max(box.Height(), 1e-12)

	avail := size - 2*previewPadding
	scale := math.Min(avail/width, avail/height)
	offX := (size - width*scale) / 2
	offY := (size - height*scale) / 2

	return func(p spatial.Point) (float64, float64) {
		x := offX + (p.Lon-box.MinLon)*kx*scale
		y := offY + (box.MaxLat-p.Lat)*scale
		return x, y
	}
}

func drawRing(dc *gg.Context, ring spatial.Ring, toPixel func(spatial.Point) (float64, float64)) {
	if len(ring) == 0 {
		return
	}
	dc.NewSubPath()
	x, y := toPixel(ring[0])
	dc.MoveTo(x, y)
	for _, p := range ring[1:] {
		x, y = toPixel(p)
		dc.LineTo(x, y)
	}
	dc.ClosePath()
	dc.FillPreserve()
	dc.Stroke()
}
