// Package widgets provides the controls hosted inside windows.
//
// Widgets keep window-relative geometry. Their absolute position is always
// derived from the host window's current content origin, so moving a window
// never leaves a widget with stale coordinates.
package widgets

import (
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// Glyph and line metrics of the panel font.
const (
	GlyphWidth  = 6
	GlyphHeight = 8
	LineHeight  = 10
)

// Host is the window a widget is attached to. Widgets hold it as a lookup
// reference only; the window owns the widget.
type Host interface {
	// ContentOrigin is the absolute top-left of the window's content area.
	ContentOrigin() geom.Point

	// ContentSurface is the compositor surface widget surfaces attach under.
	ContentSurface() compositor.Handle

	Compositor() *compositor.Compositor

	// Present pushes the current scene to the display immediately.
	Present()

	// Pause blocks for the configured press-feedback delay.
	Pause()
}

// Widget is the contract every control implements.
type Widget interface {
	// Bounds is the window-relative rectangle.
	Bounds() geom.Rect

	// SetPosition moves the widget within its window.
	SetPosition(x, y int)

	// AbsoluteBounds is Bounds in display coordinates.
	AbsoluteBounds() geom.Rect

	// InBounds tests a display-coordinate point.
	InBounds(x, y int) bool

	// Draw rebuilds the widget's display list from its state.
	Draw()

	// Attach binds the widget to a window and allocates its surface.
	Attach(host Host)

	// Detach releases the widget's surface.
	Detach()
}

// Clicker is implemented by widgets that react to primary clicks.
type Clicker interface {
	Widget
	OnClick(x, y int)
}

// KeyReceiver is implemented by widgets that accept typed text.
type KeyReceiver interface {
	Widget
	OnKey(text string)
}

// Scroller is implemented by widgets that react to the scroll wheel.
// A positive direction is a wheel turn away from the user.
type Scroller interface {
	Widget
	OnScroll(direction int)
}

// AutoFocuser is implemented by widgets that take focus when added.
type AutoFocuser interface {
	AutoFocus() bool
}

// Base provides geometry and surface bookkeeping. Embed it in widget
// structs.
type Base struct {
	rel     geom.Rect
	host    Host
	surface compositor.Handle
}

func newBase(x, y, w, h int) Base {
	return Base{rel: geom.NewRect(x, y, w, h)}
}

// Bounds returns the window-relative rectangle.
func (b *Base) Bounds() geom.Rect {
	return b.rel
}

// SetPosition moves the widget within its window.
func (b *Base) SetPosition(x, y int) {
	b.rel.X, b.rel.Y = x, y
	b.syncGeometry()
}

func (b *Base) setSize(w, h int) {
	b.rel.Width, b.rel.Height = w, h
	b.syncGeometry()
}

func (b *Base) syncGeometry() {
	if b.attached() {
		b.host.Compositor().SetGeometry(b.surface, b.rel.X, b.rel.Y, b.rel.Width, b.rel.Height)
	}
}

// AbsX is the widget's left edge in display coordinates.
func (b *Base) AbsX() int {
	if b.host == nil {
		return b.rel.X
	}
	return b.host.ContentOrigin().X + b.rel.X
}

// AbsY is the widget's top edge in display coordinates.
func (b *Base) AbsY() int {
	if b.host == nil {
		return b.rel.Y
	}
	return b.host.ContentOrigin().Y + b.rel.Y
}

// AbsoluteBounds is Bounds in display coordinates.
func (b *Base) AbsoluteBounds() geom.Rect {
	return geom.NewRect(b.AbsX(), b.AbsY(), b.rel.Width, b.rel.Height)
}

// InBounds tests a display-coordinate point.
func (b *Base) InBounds(x, y int) bool {
	return b.AbsoluteBounds().Contains(x, y)
}

// Attach allocates the widget surface under the host's content surface.
// Callers draw the widget afterwards.
func (b *Base) Attach(host Host) {
	if b.attached() {
		b.Detach()
	}
	b.host = host
	b.surface = host.Compositor().CreateChild(host.ContentSurface(), compositor.KindWidget, b.rel)
}

// Detach releases the widget surface.
func (b *Base) Detach() {
	if b.attached() {
		b.host.Compositor().RemoveSurface(b.surface)
	}
	b.host = nil
	b.surface = 0
}

// Host returns the window the widget is attached to, or nil.
func (b *Base) Host() Host { return b.host }

// Surface returns the widget's compositor surface, or 0 when detached.
func (b *Base) Surface() compositor.Handle { return b.surface }

func (b *Base) attached() bool {
	return b.host != nil && b.surface != 0
}

func (b *Base) paint(shapes ...compositor.Shape) {
	if b.attached() {
		b.host.Compositor().SetContent(b.surface, shapes...)
	}
}

// frame is the white box with a black outline most widgets sit in.
func (b *Base) frame() []compositor.Shape {
	r := geom.NewRect(0, 0, b.rel.Width, b.rel.Height)
	return []compositor.Shape{
		compositor.FillRect{Rect: r, Color: compositor.White},
		compositor.StrokeRect{Rect: r, Color: compositor.Black},
	}
}

// truncate cuts s to at most n glyphs.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
