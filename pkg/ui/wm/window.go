package wm

import (
	"slices"

	perrors "github.com/odvcencio/panel/pkg/errors"
	"github.com/odvcencio/panel/pkg/logging"
	"github.com/odvcencio/panel/pkg/telemetry"
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
	"github.com/odvcencio/panel/pkg/ui/widgets"
)

// Window chrome geometry, relative to the window's top-left.
const (
	TitleBarHeight = 10
	ContentOffsetX = 1
	ContentOffsetY = 12
	MinWindowSize  = 21

	// titleInset is the horizontal space reserved for the chrome buttons
	// and its mirror on the right.
	titleInset = 56
)

// Chrome hit boxes. A click at (x, y) hits a box when the window-relative
// point lies inside it.
var (
	closeBox    = geom.NewRect(4, 4, 5, 5)
	minimizeBox = geom.NewRect(12, 4, 5, 5)
	maximizeBox = geom.NewRect(20, 4, 5, 5)
)

// ClickResult describes what a click inside a window did.
type ClickResult int

const (
	ClickNone ClickResult = iota
	ClickClosed
	ClickMinimized
	ClickMaximized
	ClickMoved
	ClickWidget
)

func (r ClickResult) String() string {
	switch r {
	case ClickNone:
		return "none"
	case ClickClosed:
		return "closed"
	case ClickMinimized:
		return "minimized"
	case ClickMaximized:
		return "maximized"
	case ClickMoved:
		return "moved"
	case ClickWidget:
		return "widget"
	default:
		return "unknown"
	}
}

// TitleFits reports whether a title can be centered between the chrome
// buttons of a window of the given width.
func TitleFits(title string, width int) bool {
	return len(title)*widgets.GlyphWidth <= width-titleInset
}

// Window is a titled, movable container of widgets. Windows are created by
// Desktop.CreateWindow and must only be used from the dispatch goroutine.
type Window struct {
	id      string
	desktop *Desktop
	title   string
	bounds  geom.Rect
	restore geom.Rect

	maximized bool
	minimized bool
	closed    bool

	surface compositor.Handle
	content compositor.Handle
	widgets []widgets.Widget
}

func newWindow(d *Desktop, id string, bounds geom.Rect, title string) *Window {
	w := &Window{id: id, desktop: d, title: title, bounds: bounds}
	w.surface = d.comp.CreateSurface(compositor.KindWindow, bounds)
	w.content = d.comp.CreateChild(w.surface, compositor.KindWindow, contentRect(bounds))
	w.drawChrome()
	return w
}

func contentRect(b geom.Rect) geom.Rect {
	return geom.NewRect(ContentOffsetX, ContentOffsetY, b.Width-2, b.Height-ContentOffsetY-1)
}

func (w *Window) drawChrome() {
	b := w.bounds
	comp := w.desktop.comp
	comp.SetContent(w.surface,
		compositor.FillRect{Rect: geom.NewRect(0, 0, b.Width, b.Height), Color: compositor.Black},
		compositor.FillRect{Rect: geom.NewRect(1, 1, b.Width-2, TitleBarHeight), Color: compositor.White},
		compositor.Text{
			X:     (b.Width - len(w.title)*widgets.GlyphWidth) / 2,
			Y:     2,
			Text:  w.title,
			Color: compositor.Black,
		},
		compositor.Circle{Center: geom.Point{X: 6, Y: 6}, Radius: 2, Color: compositor.CloseRed},
		compositor.Circle{Center: geom.Point{X: 14, Y: 6}, Radius: 2, Color: compositor.MinAmber},
		compositor.Circle{Center: geom.Point{X: 22, Y: 6}, Radius: 2, Color: compositor.MaxGreen},
	)
	cr := contentRect(b)
	comp.SetGeometry(w.content, cr.X, cr.Y, cr.Width, cr.Height)
	comp.SetContent(w.content,
		compositor.FillRect{Rect: geom.NewRect(0, 0, cr.Width, cr.Height), Color: compositor.White})
}

// ID returns the window's unique identifier.
func (w *Window) ID() string { return w.id }

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// Bounds returns the window rectangle in display coordinates.
func (w *Window) Bounds() geom.Rect { return w.bounds }

// Maximized reports whether the window fills the display.
func (w *Window) Maximized() bool { return w.maximized }

// Minimized reports whether the window is hidden.
func (w *Window) Minimized() bool { return w.minimized }

// Closed reports whether the window has been closed.
func (w *Window) Closed() bool { return w.closed }

// Surface returns the window's root compositor surface.
func (w *Window) Surface() compositor.Handle { return w.surface }

// Widgets returns the window's widgets in insertion order.
func (w *Window) Widgets() []widgets.Widget {
	return slices.Clone(w.widgets)
}

// InBounds tests a display-coordinate point.
func (w *Window) InBounds(x, y int) bool {
	return w.bounds.Contains(x, y)
}

// ContentOrigin is the display position of the content area's top-left.
func (w *Window) ContentOrigin() geom.Point {
	return geom.Point{X: w.bounds.X + ContentOffsetX, Y: w.bounds.Y + ContentOffsetY}
}

// ContentSurface is the surface widgets attach under.
func (w *Window) ContentSurface() compositor.Handle { return w.content }

// Compositor returns the desktop's compositor.
func (w *Window) Compositor() *compositor.Compositor { return w.desktop.comp }

// Present repaints the display immediately.
func (w *Window) Present() { w.desktop.Repaint() }

// Pause blocks for the desktop's press delay.
func (w *Window) Pause() { w.desktop.sleep(w.desktop.pressDelay) }

// AddWidget attaches a widget to the window and draws it. Widgets that
// auto-focus become the focused widget.
func (w *Window) AddWidget(wd widgets.Widget) error {
	switch {
	case wd == nil:
		return perrors.New(perrors.ErrCodeWidgetInvalid, "widget is nil")
	case w.closed:
		return perrors.New(perrors.ErrCodeWidgetInvalid, "window is closed").
			WithContext("window", w.id)
	case w.owns(wd):
		return perrors.New(perrors.ErrCodeWidgetInvalid, "widget already added").
			WithContext("window", w.id)
	}
	w.widgets = append(w.widgets, wd)
	wd.Attach(w)
	wd.Draw()
	if af, ok := wd.(widgets.AutoFocuser); ok && af.AutoFocus() {
		w.desktop.setFocusedWidget(wd)
	}
	return nil
}

func (w *Window) owns(wd widgets.Widget) bool {
	return wd != nil && slices.Contains(w.widgets, wd)
}

// Translate moves the window rigidly. A move that would leave the display
// is rejected and changes nothing.
func (w *Window) Translate(dx, dy int) bool {
	if w.closed {
		return false
	}
	target := w.bounds.Translate(dx, dy)
	if !w.desktop.comp.Display().ContainsRect(target) {
		return false
	}
	w.bounds = target
	w.desktop.comp.SetGeometry(w.surface, target.X, target.Y, target.Width, target.Height)
	return true
}

// ToggleMaximize flips between filling the display and the geometry the
// window had before it was maximized.
func (w *Window) ToggleMaximize() {
	if w.closed {
		return
	}
	if w.maximized {
		w.bounds = w.restore
	} else {
		w.restore = w.bounds
		w.bounds = w.desktop.comp.Display()
	}
	w.maximized = !w.maximized
	b := w.bounds
	w.desktop.comp.SetGeometry(w.surface, b.X, b.Y, b.Width, b.Height)
	w.drawChrome()
	if w.maximized {
		w.desktop.publish(eventFor(telemetry.EventWindowMaximized, w))
	} else {
		w.desktop.publish(eventFor(telemetry.EventWindowRestored, w))
	}
}

// Minimize hides the window until Desktop.Restore is called.
func (w *Window) Minimize() { w.desktop.minimizeWindow(w) }

// Close removes the window and its widgets.
func (w *Window) Close() { w.desktop.closeWindow(w) }

// ProcessClick resolves a display-coordinate click. Chrome buttons are
// checked first, then the title bar, then widgets in insertion order.
func (w *Window) ProcessClick(x, y int) ClickResult {
	if w.closed || !w.InBounds(x, y) {
		return ClickNone
	}
	lx, ly := x-w.bounds.X, y-w.bounds.Y
	switch {
	case closeBox.Contains(lx, ly):
		w.Close()
		return ClickClosed
	case minimizeBox.Contains(lx, ly):
		w.Minimize()
		return ClickMinimized
	case maximizeBox.Contains(lx, ly):
		w.ToggleMaximize()
		return ClickMaximized
	case !w.maximized && ly <= TitleBarHeight:
		w.desktop.beginDrag(w)
		return ClickMoved
	}

	for _, wd := range w.widgets {
		if !wd.InBounds(x, y) {
			continue
		}
		w.desktop.setFocusedWidget(wd)
		if c, ok := wd.(widgets.Clicker); ok {
			c.OnClick(x, y)
		}
		_ = w.desktop.log.Debug(logging.CategoryWidget, "widget_click", "widget clicked", map[string]any{
			"window": w.id, "x": x, "y": y,
		})
		return ClickWidget
	}
	w.desktop.setFocusedWidget(nil)
	return ClickNone
}

func (w *Window) detachAll() {
	for _, wd := range w.widgets {
		wd.Detach()
	}
	w.widgets = nil
}
