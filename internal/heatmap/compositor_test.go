package heatmap

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/ecomap-backend-go/internal/spatial"
)

func testLogger() (*log.Logger, *memory.Handler) {
	h := memory.New()
	return &log.Logger{Handler: h, Level: log.DebugLevel}, h
}

func testInput() Input {
	return Input{Points: scatter(), MaxMagnitude: 30, Threshold: 0}
}

func TestCompositor_MountRendersOneOverlay(t *testing.T) {
	view := NewMapView(NewLinearViewport(testBounds, 200, 200))
	logger, _ := testLogger()
	c := NewCompositor(view, WithLogger(logger))

	assert.Equal(t, StateIdle, c.State())
	c.Mount(testInput())

	assert.Equal(t, StateRendered, c.State())
	require.Len(t, view.Overlays(), 1)
	assert.Same(t, c.Overlay(), view.Overlays()[0])
	assert.Equal(t, testBounds, c.Overlay().Bounds)
	assert.Equal(t, image.Rect(0, 0, 200, 200), c.Overlay().Image.Bounds())
	assert.Equal(t, 2, view.Listeners(), "view change and detach")
}

func TestCompositor_ViewChangeReplacesOverlay(t *testing.T) {
	view := NewMapView(NewLinearViewport(testBounds, 200, 200))
	logger, _ := testLogger()
	c := NewCompositor(view, WithLogger(logger))
	c.Mount(testInput())
	first := c.Overlay()

	zoomed := spatial.BBox{MinLat: 0.4, MinLon: 0.4, MaxLat: 0.9, MaxLon: 0.9}
	view.SetViewport(NewLinearViewport(zoomed, 100, 100))

	require.Len(t, view.Overlays(), 1)
	assert.NotSame(t, first, c.Overlay())
	assert.Equal(t, 2, c.Overlay().Generation)
	assert.Equal(t, zoomed, c.Overlay().Bounds)

	for i := 0; i < 5; i++ {
		view.SetViewport(NewLinearViewport(testBounds, 200, 200))
	}
	assert.Len(t, view.Overlays(), 1, "re-renders never accumulate overlays")
	assert.Equal(t, 7, c.Overlay().Generation)
}

func TestCompositor_SetInput(t *testing.T) {
	view := NewMapView(NewLinearViewport(testBounds, 200, 200))
	logger, _ := testLogger()
	c := NewCompositor(view, WithLogger(logger))

	// Not mounted yet: nothing is drawn.
	c.SetInput(testInput())
	assert.Empty(t, view.Overlays())

	c.Mount(testInput())
	require.Len(t, view.Overlays(), 1)

	in := testInput()
	in.Threshold = 1
	c.SetInput(in)
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Overlay())
	assert.Empty(t, view.Overlays())
}

func TestCompositor_CloseReleases(t *testing.T) {
	view := NewMapView(NewLinearViewport(testBounds, 200, 200))
	logger, _ := testLogger()
	c := NewCompositor(view, WithLogger(logger))
	c.Mount(testInput())

	c.Close()
	assert.Empty(t, view.Overlays())
	assert.Equal(t, 0, view.Listeners())
	assert.Equal(t, StateIdle, c.State())

	// Further view changes do not reach a closed compositor.
	view.SetViewport(NewLinearViewport(testBounds, 100, 100))
	assert.Empty(t, view.Overlays())

	assert.NotPanics(t, c.Close)
}

func TestCompositor_DetachReleases(t *testing.T) {
	view := NewMapView(NewLinearViewport(testBounds, 200, 200))
	logger, _ := testLogger()
	c := NewCompositor(view, WithLogger(logger))
	c.Mount(testInput())
	require.Len(t, view.Overlays(), 1)

	view.Detach()
	assert.Empty(t, view.Overlays())
	assert.Nil(t, c.Overlay())
	assert.Equal(t, 0, view.Listeners())
	assert.Equal(t, StateIdle, c.State())

	view.SetViewport(NewLinearViewport(testBounds, 100, 100))
	assert.Empty(t, view.Overlays())

	assert.NotPanics(t, view.Detach)
	assert.NotPanics(t, c.Close)
}

type panicCanvas struct{ Canvas }

func (panicCanvas) SetNRGBA(int, int, color.NRGBA) { panic("canvas lost") }

func TestCompositor_RenderFailureLeavesNoOverlay(t *testing.T) {
	view := NewMapView(NewLinearViewport(testBounds, 200, 200))
	logger, entries := testLogger()
	c := NewCompositor(view,
		WithLogger(logger),
		WithCanvas(func(w, h int) Canvas { return panicCanvas{NewImageCanvas(w, h)} }),
	)

	assert.NotPanics(t, func() { c.Mount(testInput()) })
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Overlay())
	assert.Empty(t, view.Overlays())

	require.NotEmpty(t, entries.Entries)
	last := entries.Entries[len(entries.Entries)-1]
	assert.Equal(t, log.ErrorLevel, last.Level)
	assert.Contains(t, last.Message, "Render failed")
}

type rejectingHost struct {
	*MapView
	removed int
}

func (h *rejectingHost) AddOverlay(o *Overlay) error {
	_ = h.MapView.AddOverlay(o)
	return errors.New("layer pane unavailable")
}

func (h *rejectingHost) RemoveOverlay(o *Overlay) error {
	h.removed++
	return h.MapView.RemoveOverlay(o)
}

func TestCompositor_FailedAttachIsReleased(t *testing.T) {
	host := &rejectingHost{MapView: NewMapView(NewLinearViewport(testBounds, 200, 200))}
	logger, _ := testLogger()
	c := NewCompositor(host, WithLogger(logger))

	c.Mount(testInput())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, host.removed)
	assert.Empty(t, host.Overlays())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "rendering", StateRendering.String())
	assert.Equal(t, "rendered", StateRendered.String())
}
