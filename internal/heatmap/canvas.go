package heatmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Canvas is the pixel sink an overlay is rasterised into. Hosts can supply
// their own; NewImageCanvas is the default.
type Canvas interface {
	Bounds() image.Rectangle
	SetNRGBA(x, y int, c color.NRGBA)
	Image() image.Image
}

// CanvasFactory allocates a canvas of the given pixel size.
type CanvasFactory func(width, height int) Canvas

// ImageCanvas is a Canvas backed by an in-memory NRGBA image.
type ImageCanvas struct {
	*image.NRGBA
}

// NewImageCanvas returns a transparent canvas of the given size.
func NewImageCanvas(width, height int) Canvas {
	return ImageCanvas{image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Image implements Canvas.
func (c ImageCanvas) Image() image.Image {
	return c.NRGBA
}

// Paint fills each non-zero field cell with its ramp colour.
// Cells on the right and bottom edges are clipped to the canvas.
func Paint(dst Canvas, f Field) {
	b := dst.Bounds()
	for gy := 0; gy < f.Rows; gy++ {
		for gx := 0; gx < f.Cols; gx++ {
			v := f.At(gx, gy)
			if v <= 0 {
				continue
			}
			col := Ramp(v)
			cell := image.Rect(gx*f.CellSize, gy*f.CellSize, (gx+1)*f.CellSize, (gy+1)*f.CellSize).
				Add(b.Min).
				Intersect(b)
			for y := cell.Min.Y; y < cell.Max.Y; y++ {
				for x := cell.Min.X; x < cell.Max.X; x++ {
					dst.SetNRGBA(x, y, col)
				}
			}
		}
	}
}

// Format is an overlay image encoding.
type Format string

// Supported overlay formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ParseFormat accepts png, bmp and tiff (case-insensitive). Empty means png.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatBMP, FormatTIFF:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported overlay format: %s", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatPNG, "":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported overlay format: %s", f)
	}
}
