package wm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/panel/pkg/input"
	"github.com/odvcencio/panel/pkg/telemetry"
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
	"github.com/odvcencio/panel/pkg/ui/widgets"
)

func TestListBoxClickScenario(t *testing.T) {
	h := newHarness(t)
	w := h.window(10, 10, 200, 150, "Test")
	lb := widgets.NewListBox(5, 5, 100, 60, []string{"a", "b", "c"})
	require.NoError(t, w.AddWidget(lb))

	// item "b" spans y 37..46 at x 16..115
	h.click(30, 40)

	assert.Equal(t, 1, lb.SelectedIndex())
	assert.Equal(t, widgets.Widget(lb), h.d.FocusedWidget())
	assert.Same(t, w, h.d.FocusedWindow())
}

func TestClickRoutesToTopmostWindow(t *testing.T) {
	h := newHarness(t)
	b := h.window(10, 10, 150, 100, "B")
	a := h.window(50, 50, 150, 100, "A")
	lbB := widgets.NewListBox(0, 0, 148, 80, []string{"b0", "b1", "b2", "b3", "b4", "b5"})
	lbA := widgets.NewListBox(0, 0, 148, 80, []string{"a0", "a1", "a2", "a3", "a4", "a5"})
	require.NoError(t, b.AddWidget(lbB))
	require.NoError(t, a.AddWidget(lbA))

	// inside both windows' content areas
	h.click(100, 85)
	assert.Same(t, a, h.d.FocusedWindow())
	assert.Equal(t, widgets.Widget(lbA), h.d.FocusedWidget())
	assert.Equal(t, 0, lbB.SelectedIndex())

	// B's exposed corner raises it
	h.click(20, 40)
	assert.Same(t, b, h.d.FocusedWindow())
	assert.Equal(t, []*Window{a, b}, h.d.Windows())

	h.click(100, 85)
	assert.Same(t, b, h.d.FocusedWindow(), "B is now on top of the overlap")
}

func TestClickOnDesktopDoesNothing(t *testing.T) {
	h := newHarness(t)
	w := h.window(10, 10, 100, 60, "A")
	h.click(300, 200)
	assert.Same(t, w, h.d.FocusedWindow())
}

func TestHeldButtonClicksOnce(t *testing.T) {
	h := newHarness(t)
	w := h.window(10, 10, 200, 150, "Btn")
	presses := 0
	require.NoError(t, w.AddWidget(widgets.NewButton(5, 5, 60, 16, "Go", func() { presses++ })))

	h.d.Cursor().MoveTo(30, 30)
	h.press()
	h.press()
	h.d.Tick() // no sample keeps the button held
	h.release()
	assert.Equal(t, 1, presses)
	assert.Equal(t, []time.Duration{DefaultPressDelay}, h.sleeps)

	h.press()
	assert.Equal(t, 2, presses)
}

func TestPressDelayOption(t *testing.T) {
	h := newHarnessWith(t, compositor.New(nil, 320, 240), Options{PressDelay: 5 * time.Millisecond})
	w := h.window(10, 10, 200, 150, "Btn")
	require.NoError(t, w.AddWidget(widgets.NewButton(5, 5, 60, 16, "Go", nil)))
	h.click(30, 30)
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, h.sleeps)
}

func TestPointerMovesCursor(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, geom.Point{X: 160, Y: 120}, h.d.Cursor().Position())

	h.tick(input.PointerSample{DX: 10, DY: -5})
	assert.Equal(t, geom.Point{X: 170, Y: 115}, h.d.Cursor().Position())

	h.d.SetPointerSpeed(3)
	h.tick(input.PointerSample{DX: 2, DY: 2})
	assert.Equal(t, geom.Point{X: 176, Y: 121}, h.d.Cursor().Position())

	h.d.Tick()
	assert.Equal(t, geom.Point{X: 176, Y: 121}, h.d.Cursor().Position(), "timeout is no motion")
}

func TestCursorClamp(t *testing.T) {
	h := newHarness(t)
	c := h.d.Cursor()
	c.Move(-1000, -1000)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, c.Position())
	c.Move(10000, 10000)
	assert.Equal(t, geom.Point{X: 319, Y: 239}, c.Position())

	r, ok := h.comp.Geometry(c.Surface())
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(318, 238, 8, 11), r)
}

func TestCursorTipOffset(t *testing.T) {
	h := newHarnessWith(t, compositor.New(nil, 320, 240), Options{TipOffset: 4})
	h.d.Cursor().MoveTo(50, 50)
	assert.Equal(t, geom.Point{X: 46, Y: 46}, h.d.Cursor().Tip())

	h.d.SetTipOffset(0)
	assert.Equal(t, geom.Point{X: 50, Y: 50}, h.d.Cursor().Tip())
}

func TestKeysDeliveredToFocusedWidget(t *testing.T) {
	h := newHarness(t)
	w := h.window(10, 10, 200, 150, "Keys")
	tb := widgets.NewTextBox(5, 5, 120, 60, "")
	require.NoError(t, w.AddWidget(tb))

	h.keys.Post([]byte("hello"))
	h.d.Tick()
	assert.Equal(t, "hello", tb.Text())

	h.keys.Post([]byte("\x08!"))
	h.d.Tick()
	assert.Equal(t, "hell!", tb.Text())
}

func TestKeysWaitInRingWithoutReceiver(t *testing.T) {
	h := newHarness(t)
	w := h.window(10, 10, 200, 150, "Keys")
	lb := widgets.NewListBox(5, 5, 60, 40, []string{"a"})
	require.NoError(t, w.AddWidget(lb))
	h.click(20, 30)
	require.Equal(t, widgets.Widget(lb), h.d.FocusedWidget())

	h.keys.Post([]byte("abc"))
	h.d.Tick()
	assert.Equal(t, 3, h.d.Input().Ring().Len())
}

func TestScrollGoesToFocusedWidgetInWindowUnderPointer(t *testing.T) {
	h := newHarness(t)
	a := h.window(10, 10, 150, 100, "A")
	var rows [][]string
	for i := 0; i < 20; i++ {
		rows = append(rows, []string{"r", "x"})
	}
	tbl, err := widgets.NewTable(0, 0, 140, 64, []string{"A", "B"}, rows)
	require.NoError(t, err)
	require.NoError(t, a.AddWidget(tbl))
	require.Equal(t, widgets.Widget(tbl), h.d.FocusedWidget())

	h.d.Cursor().MoveTo(50, 60)
	h.tick(input.PointerSample{Scroll: -1})
	assert.Equal(t, 1, tbl.ScrollOffset())

	h.d.Cursor().MoveTo(300, 200)
	h.tick(input.PointerSample{Scroll: -1})
	assert.Equal(t, 1, tbl.ScrollOffset(), "pointer off every window")

	b := h.window(40, 40, 100, 80, "B")
	h.d.Cursor().MoveTo(60, 60)
	h.tick(input.PointerSample{Scroll: -1})
	assert.Equal(t, 1, tbl.ScrollOffset(), "pointer over a window that does not own the widget")

	b.Close()
	h.tick(input.PointerSample{Scroll: 1})
	assert.Equal(t, 0, tbl.ScrollOffset())
}

func TestCloseViaChrome(t *testing.T) {
	h := newHarness(t)
	hub := telemetry.NewHub()
	defer hub.Close()
	h.d.events = hub
	events, unsub := hub.Subscribe()
	defer unsub()

	w := h.window(40, 20, 150, 100, "Bye")
	tb := widgets.NewTextBox(5, 5, 100, 40, "")
	require.NoError(t, w.AddWidget(tb))
	tbSurface := tb.Surface()

	h.click(46, 26)

	assert.True(t, w.Closed())
	assert.Empty(t, h.d.Windows())
	assert.Nil(t, h.d.FocusedWindow())
	assert.Nil(t, h.d.FocusedWidget())
	assert.False(t, h.comp.Exists(w.Surface()))
	assert.False(t, h.comp.Exists(tbSurface))

	var types []telemetry.EventType
	for len(events) > 0 {
		types = append(types, (<-events).Type)
	}
	assert.Contains(t, types, telemetry.EventWindowCreated)
	assert.Contains(t, types, telemetry.EventWindowClosed)
}

func TestMinimizeAndRestore(t *testing.T) {
	h := newHarness(t)
	back := h.window(10, 10, 200, 150, "Back")
	front := h.window(40, 20, 150, 100, "Front")

	h.click(54, 25)
	require.True(t, front.Minimized())
	assert.True(t, h.comp.Hidden(front.Surface()))
	assert.Nil(t, h.d.FocusedWindow())
	assert.Same(t, back, h.d.WindowAt(100, 80), "minimized windows are not hit")

	h.d.Restore(front)
	assert.False(t, front.Minimized())
	assert.False(t, h.comp.Hidden(front.Surface()))
	assert.Same(t, front, h.d.FocusedWindow())
	assert.Same(t, front, h.d.WindowAt(100, 80))
}

func TestMaximizeViaChrome(t *testing.T) {
	h := newHarness(t)
	w := h.window(0, 0, 100, 80, "Max")
	h.click(22, 6)
	assert.Equal(t, geom.NewRect(0, 0, 320, 240), w.Bounds())
	h.click(22, 6)
	assert.Equal(t, geom.NewRect(0, 0, 100, 80), w.Bounds())
}

func TestBlinkDrivenByTick(t *testing.T) {
	now := time.Unix(1000, 0)
	h := newHarnessWith(t, compositor.New(nil, 320, 240), Options{Now: func() time.Time { return now }})
	w := h.window(10, 10, 200, 150, "Blink")
	tb := widgets.NewTextBox(5, 5, 120, 60, "")
	require.NoError(t, w.AddWidget(tb))

	h.d.Tick()
	now = now.Add(widgets.BlinkInterval)
	h.d.Tick()
	assert.False(t, tb.CaretVisible())
}

func TestRepaintCoalescing(t *testing.T) {
	h := newHarness(t)
	h.window(10, 10, 100, 60, "A")
	h.d.Tick()
	presents := h.comp.Stats().Presents
	h.d.Tick()
	h.d.Tick()
	assert.Equal(t, presents, h.comp.Stats().Presents)
}
