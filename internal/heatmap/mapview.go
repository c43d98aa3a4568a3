package heatmap

import (
	"errors"
	"sort"
)

// ErrOverlayNotAttached is returned when removing an unknown overlay.
var ErrOverlayNotAttached = errors.New("overlay not attached")

// MapView is an in-memory Host. Servers use it to render one viewport per
// request; SetViewport plays the role of a pan or zoom.
type MapView struct {
	viewport  Viewport
	listeners map[int]func()
	detachers map[int]func()
	nextID    int
	overlays  []*Overlay
}

// NewMapView returns a host showing the given viewport.
func NewMapView(vp Viewport) *MapView {
	return &MapView{
		viewport:  vp,
		listeners: make(map[int]func()),
		detachers: make(map[int]func()),
	}
}

// Viewport implements Host.
func (m *MapView) Viewport() Viewport { return m.viewport }

// OnViewChange implements Host.
func (m *MapView) OnViewChange(fn func()) func() {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

// OnDetach implements Host.
func (m *MapView) OnDetach(fn func()) func() {
	id := m.nextID
	m.nextID++
	m.detachers[id] = fn
	return func() { delete(m.detachers, id) }
}

// AddOverlay implements Host.
func (m *MapView) AddOverlay(o *Overlay) error {
	m.overlays = append(m.overlays, o)
	return nil
}

// RemoveOverlay implements Host.
func (m *MapView) RemoveOverlay(o *Overlay) error {
	for i, cur := range m.overlays {
		if cur == o {
			m.overlays = append(m.overlays[:i], m.overlays[i+1:]...)
			return nil
		}
	}
	return ErrOverlayNotAttached
}

// SetViewport moves the view and notifies listeners synchronously.
func (m *MapView) SetViewport(vp Viewport) {
	m.viewport = vp
	notify(m.listeners)
}

// Detach tears the view down and notifies detach listeners synchronously.
func (m *MapView) Detach() {
	notify(m.detachers)
}

// notify calls every callback in registration order. Callbacks may
// unsubscribe themselves while running.
func notify(callbacks map[int]func()) {
	ids := make([]int, 0, len(callbacks))
	for id := range callbacks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := callbacks[id]; ok {
			fn()
		}
	}
}

// Overlays returns the attached overlays, oldest first.
func (m *MapView) Overlays() []*Overlay {
	return append([]*Overlay(nil), m.overlays...)
}

// Listeners returns the number of registered view-change and detach
// callbacks.
func (m *MapView) Listeners() int { return len(m.listeners) + len(m.detachers) }
