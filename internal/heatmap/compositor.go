package heatmap

import (
	"fmt"
	"image"

	"github.com/apex/log"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

// State is the lifecycle stage of a Compositor.
type State int

const (
	StateIdle State = iota
	StateRendering
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateRendering:
		return "rendering"
	case StateRendered:
		return "rendered"
	default:
		return "idle"
	}
}

// Overlay is a composited raster aligned to geographic bounds.
type Overlay struct {
	Image      image.Image
	Bounds     spatial.BBox
	Generation int
}

// Host is the map view an overlay is attached to. Notifications registered
// with OnViewChange are delivered synchronously on pan or zoom, and those
// registered with OnDetach when the view goes away.
type Host interface {
	Viewport() Viewport
	OnViewChange(fn func()) (unsubscribe func())
	OnDetach(fn func()) (unsubscribe func())
	AddOverlay(o *Overlay) error
	RemoveOverlay(o *Overlay) error
}

// Input is everything a render depends on besides the viewport.
type Input struct {
	Points       []WeightedPoint
	MaxMagnitude float64
	Threshold    float64
}

// Compositor owns the heat map overlay of one host.
//
// It holds at most one overlay. Every render releases the previous overlay
// before producing a new one, and Close releases it unconditionally.
// Rendering failures are logged and leave no overlay. A Compositor is not
// safe for concurrent use.
type Compositor struct {
	host        Host
	newCanvas   CanvasFactory
	logger      log.Interface
	input       Input
	state       State
	overlay     *Overlay
	generation  int
	unsubscribe func()
	undetach    func()
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithCanvas overrides the canvas factory.
func WithCanvas(f CanvasFactory) Option {
	return func(c *Compositor) { c.newCanvas = f }
}

// WithLogger overrides the logger.
func WithLogger(l log.Interface) Option {
	return func(c *Compositor) { c.logger = l }
}

// NewCompositor creates an idle compositor for a host.
func NewCompositor(host Host, opts ...Option) *Compositor {
	c := &Compositor{
		host:      host,
		newCanvas: NewImageCanvas,
		logger:    log.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle stage.
func (c *Compositor) State() State { return c.state }

// Overlay returns the overlay currently attached, if any.
func (c *Compositor) Overlay() *Overlay { return c.overlay }

// Mount subscribes to view changes and detach, then renders the input.
func (c *Compositor) Mount(in Input) {
	c.input = in
	if c.unsubscribe == nil {
		c.unsubscribe = c.host.OnViewChange(c.Render)
	}
	if c.undetach == nil {
		c.undetach = c.host.OnDetach(c.Close)
	}
	c.Render()
}

// SetInput replaces the points, threshold or maximum. A mounted compositor
// re-renders immediately.
func (c *Compositor) SetInput(in Input) {
	c.input = in
	if c.unsubscribe != nil {
		c.Render()
	}
}

// Render rebuilds the overlay for the current viewport.
func (c *Compositor) Render() {
	c.state = StateRendering
	c.release()

	if err := c.compose(); err != nil {
		c.logger.WithError(err).Error("[HeatmapCompositor] Render failed")
		c.release()
		c.state = StateIdle
		return
	}

	if c.overlay == nil {
		c.state = StateIdle
		return
	}
	c.state = StateRendered
}

// compose builds and attaches a new overlay. Panics are turned into errors.
func (c *Compositor) compose() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	vp := c.host.Viewport()
	field := BuildField(c.input.Points, c.input.MaxMagnitude, c.input.Threshold, vp)
	if field.Empty() {
		return nil
	}

	canvas := c.newCanvas(vp.Width, vp.Height)
	Paint(canvas, field)

	c.generation++
	ov := &Overlay{Image: canvas.Image(), Bounds: vp.Bounds, Generation: c.generation}

	// Own the overlay before attaching so a failed attach is still released.
	c.overlay = ov
	if err := c.host.AddOverlay(ov); err != nil {
		return fmt.Errorf("failed to attach overlay: %w", err)
	}

	c.logger.WithFields(log.Fields{
		"generation": ov.Generation,
		"cols":       field.Cols,
		"rows":       field.Rows,
	}).Debug("[HeatmapCompositor] Overlay attached")
	return nil
}

// release detaches the current overlay, if any.
func (c *Compositor) release() {
	if c.overlay == nil {
		return
	}
	ov := c.overlay
	c.overlay = nil

	if err := c.detach(ov); err != nil {
		c.logger.WithError(err).Warn("[HeatmapCompositor] Error removing overlay")
	}
}

func (c *Compositor) detach(ov *Overlay) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("remove panic: %v", r)
		}
	}()
	return c.host.RemoveOverlay(ov)
}

// Close unsubscribes from the host and releases the overlay. It runs on
// host detach and is safe to call more than once.
func (c *Compositor) Close() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("[HeatmapCompositor] Unsubscribe failed: %v", r)
		}
		c.release()
		c.state = StateIdle
	}()

	if c.unsubscribe != nil {
		unsubscribe := c.unsubscribe
		c.unsubscribe = nil
		unsubscribe()
	}
	if c.undetach != nil {
		undetach := c.undetach
		c.undetach = nil
		undetach()
	}
}
