// Package wm is the window manager: the desktop, its windows, the pointer
// cursor and the per-tick dispatch of pointer and keyboard input.
package wm

import (
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	perrors "github.com/odvcencio/panel/pkg/errors"
	"github.com/odvcencio/panel/pkg/input"
	"github.com/odvcencio/panel/pkg/logging"
	"github.com/odvcencio/panel/pkg/telemetry"
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
	"github.com/odvcencio/panel/pkg/ui/widgets"
)

const (
	DefaultPointerSpeed = 1
	DefaultPressDelay   = 100 * time.Millisecond
)

// Options configures a Desktop. Zero values select defaults; Logger,
// Events and Metrics may be nil.
type Options struct {
	PointerSpeed int
	// TipOffset shifts the click point up and left of the cursor hotspot.
	TipOffset  int
	PressDelay time.Duration

	Logger  *logging.Logger
	Events  *telemetry.Hub
	Metrics *telemetry.Metrics

	// Now and Sleep replace the wall clock in tests.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// Desktop is the shell context: the window stack, the cursor, focus and
// the drag state. It is driven by Tick and must only be used from one
// goroutine.
type Desktop struct {
	comp       *compositor.Compositor
	input      *input.Pipeline
	cursor     *Cursor
	background compositor.Handle

	// windows is ordered back to front.
	windows       []*Window
	focus         *Window
	focusedWidget widgets.Widget
	drag          dragState
	prevButtons   input.Buttons

	speed      int
	pressDelay time.Duration

	log          *logging.Logger
	events       *telemetry.Hub
	metrics      *telemetry.Metrics
	now          func() time.Time
	sleep        func(time.Duration)
	lastPresents uint64
}

// NewDesktop creates the desktop background and cursor on comp and reads
// input from pipeline.
func NewDesktop(comp *compositor.Compositor, pipeline *input.Pipeline, opts Options) *Desktop {
	if opts.PointerSpeed <= 0 {
		opts.PointerSpeed = DefaultPointerSpeed
	}
	if opts.PressDelay < 0 {
		opts.PressDelay = 0
	} else if opts.PressDelay == 0 {
		opts.PressDelay = DefaultPressDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	d := &Desktop{
		comp:       comp,
		input:      pipeline,
		speed:      opts.PointerSpeed,
		pressDelay: opts.PressDelay,
		log:        opts.Logger,
		events:     opts.Events,
		metrics:    opts.Metrics,
		now:        opts.Now,
		sleep:      opts.Sleep,
	}
	d.background = comp.CreateSurface(compositor.KindBackground, comp.Display())
	comp.SetContent(d.background, compositor.FillRect{
		Rect:  geom.NewRect(0, 0, comp.Display().Width, comp.Display().Height),
		Color: compositor.Desktop,
	})
	d.cursor = newCursor(comp)
	d.cursor.tipOffset = opts.TipOffset
	return d
}

// Compositor returns the scene the desktop draws into.
func (d *Desktop) Compositor() *compositor.Compositor { return d.comp }

// Input returns the input pipeline.
func (d *Desktop) Input() *input.Pipeline { return d.input }

// Cursor returns the pointer cursor.
func (d *Desktop) Cursor() *Cursor { return d.cursor }

// Windows returns the open windows, back to front.
func (d *Desktop) Windows() []*Window { return slices.Clone(d.windows) }

// FocusedWindow returns the focused window, or nil.
func (d *Desktop) FocusedWindow() *Window { return d.focus }

// FocusedWidget returns the widget receiving keys, or nil.
func (d *Desktop) FocusedWidget() widgets.Widget { return d.focusedWidget }

// DragPhase reports the state of an interactive move.
func (d *Desktop) DragPhase() DragPhase { return d.drag.phase }

// SetPointerSpeed sets the pointer delta multiplier.
func (d *Desktop) SetPointerSpeed(speed int) {
	if speed > 0 {
		d.speed = speed
	}
}

// SetTipOffset sets how far the click point sits from the hotspot.
func (d *Desktop) SetTipOffset(offset int) { d.cursor.tipOffset = offset }

// SetPressDelay sets the button press-feedback pause.
func (d *Desktop) SetPressDelay(delay time.Duration) {
	if delay >= 0 {
		d.pressDelay = delay
	}
}

// CreateWindow opens a window. Invalid geometry or a title too long for
// the title bar returns an error and creates nothing. The new window is
// topmost and focused.
func (d *Desktop) CreateWindow(x, y, width, height int, title string) (*Window, error) {
	bounds := geom.NewRect(x, y, width, height)
	display := d.comp.Display()
	switch {
	case width < MinWindowSize || height < MinWindowSize:
		return nil, perrors.Newf(perrors.ErrCodeWindowGeometry, "window too small: %dx%d", width, height).
			WithContext("min", MinWindowSize)
	case x < 0 || y < 0:
		return nil, perrors.Newf(perrors.ErrCodeWindowGeometry, "window position out of bounds: (%d,%d)", x, y)
	case !display.ContainsRect(bounds):
		return nil, perrors.New(perrors.ErrCodeWindowGeometry, "window exceeds display bounds").
			WithContext("window", bounds).
			WithContext("display", display)
	case !TitleFits(title, width):
		return nil, perrors.Newf(perrors.ErrCodeWindowTitle, "title too long for width %d", width).
			WithContext("title", title).
			WithRemediation("shorten the title or widen the window")
	}

	w := newWindow(d, ulid.Make().String(), bounds, title)
	d.windows = append(d.windows, w)
	d.focus = w
	d.metrics.SetWindowsOpen(len(d.windows))
	d.publish(eventFor(telemetry.EventWindowCreated, w))
	_ = d.log.Info(logging.CategoryWindow, "window_created", "window created", map[string]any{
		"window": w.id, "title": title, "x": x, "y": y, "width": width, "height": height,
	})
	d.Repaint()
	return w, nil
}

// Focus makes w the focused window and raises it.
func (d *Desktop) Focus(w *Window) {
	if w == nil || w.closed {
		return
	}
	if i := slices.Index(d.windows, w); i >= 0 && i != len(d.windows)-1 {
		d.windows = append(slices.Delete(d.windows, i, i+1), w)
		d.comp.RaiseToTop(w.surface)
	}
	if d.focus != w {
		d.focus = w
		d.publish(eventFor(telemetry.EventFocusChanged, w))
	}
}

// Restore shows a minimized window and focuses it.
func (d *Desktop) Restore(w *Window) {
	if w == nil || w.closed || !w.minimized {
		return
	}
	w.minimized = false
	d.comp.SetHidden(w.surface, false)
	d.Focus(w)
	d.publish(eventFor(telemetry.EventWindowRestored, w))
}

// WindowAt returns the topmost visible window containing (x, y).
func (d *Desktop) WindowAt(x, y int) *Window {
	for i := len(d.windows) - 1; i >= 0; i-- {
		w := d.windows[i]
		if !w.minimized && w.InBounds(x, y) {
			return w
		}
	}
	return nil
}

func (d *Desktop) setFocusedWidget(wd widgets.Widget) {
	d.focusedWidget = wd
}

// ownerOf returns the window holding wd.
func (d *Desktop) ownerOf(wd widgets.Widget) *Window {
	for _, w := range d.windows {
		if w.owns(wd) {
			return w
		}
	}
	return nil
}

func (d *Desktop) dropFocusInto(w *Window) {
	if d.focus == w {
		d.focus = nil
	}
	if w.owns(d.focusedWidget) {
		d.focusedWidget = nil
	}
}

func (d *Desktop) minimizeWindow(w *Window) {
	if w.closed || w.minimized {
		return
	}
	w.minimized = true
	d.comp.SetHidden(w.surface, true)
	d.dropFocusInto(w)
	d.publish(eventFor(telemetry.EventWindowMinimized, w))
}

func (d *Desktop) closeWindow(w *Window) {
	if w.closed {
		return
	}
	d.dropFocusInto(w)
	w.detachAll()
	d.comp.RemoveSurface(w.surface)
	w.closed = true
	if i := slices.Index(d.windows, w); i >= 0 {
		d.windows = slices.Delete(d.windows, i, i+1)
	}
	d.metrics.SetWindowsOpen(len(d.windows))
	d.publish(eventFor(telemetry.EventWindowClosed, w))
	_ = d.log.Info(logging.CategoryWindow, "window_closed", "window closed", map[string]any{
		"window": w.id, "title": w.title,
	})
}

// Repaint presents the scene if anything changed. Render failures are
// logged and retried on the next call.
func (d *Desktop) Repaint() {
	if err := d.comp.Repaint(); err != nil {
		_ = d.log.Warn(logging.CategoryCompositor, "repaint_failed", err.Error(), nil)
		return
	}
	presents := d.comp.Stats().Presents
	d.metrics.AddRepaints(int(presents - d.lastPresents))
	d.lastPresents = presents
}

// Tick runs one dispatch iteration: pointer, click, scroll, keys, repaint.
// While a drag is in progress only the drag advances.
func (d *Desktop) Tick() {
	if d.drag.phase != DragIdle {
		d.tickDrag()
		d.Repaint()
		return
	}

	sample, sampled := d.input.SamplePointer()
	buttons := d.prevButtons
	if sampled {
		d.cursor.Move(sample.DX*d.speed, sample.DY*d.speed)
		buttons = sample.Buttons
	}
	pressed := buttons.Primary() && !d.prevButtons.Primary()
	d.prevButtons = buttons

	if pressed {
		d.click()
		if d.drag.phase != DragIdle {
			d.Repaint()
			return
		}
	}
	if sampled && sample.Scroll != 0 {
		d.scroll(sample.Scroll)
	}

	d.input.PollKeystrokes()
	if kr, ok := d.focusedWidget.(widgets.KeyReceiver); ok {
		if text := d.input.DrainKeystrokes(); text != "" {
			kr.OnKey(text)
		}
	}
	if b, ok := d.focusedWidget.(widgets.Blinker); ok {
		b.Blink(d.now())
	}
	d.Repaint()
}

func (d *Desktop) click() {
	tip := d.cursor.Tip()
	w := d.WindowAt(tip.X, tip.Y)
	if w == nil {
		return
	}
	d.Focus(w)
	result := w.ProcessClick(tip.X, tip.Y)
	_ = d.log.Debug(logging.CategoryDispatch, "click", result.String(), map[string]any{
		"window": w.id, "x": tip.X, "y": tip.Y,
	})
}

func (d *Desktop) scroll(value int) {
	s, ok := d.focusedWidget.(widgets.Scroller)
	if !ok {
		return
	}
	tip := d.cursor.Tip()
	w := d.WindowAt(tip.X, tip.Y)
	if w == nil || d.ownerOf(s) != w {
		return
	}
	s.OnScroll(value)
}

func (d *Desktop) publish(ev telemetry.Event) {
	d.events.Publish(ev)
}

func eventFor(t telemetry.EventType, w *Window) telemetry.Event {
	return telemetry.Event{Type: t, WindowID: w.id, Title: w.title}
}
