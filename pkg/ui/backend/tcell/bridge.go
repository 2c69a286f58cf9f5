package tcell

import (
	"context"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/panel/pkg/input"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// Bridge turns terminal events into the byte stream and relative pointer
// reports the input pipeline consumes. Terminal mouse positions are
// absolute cells, so the bridge tracks the last pointer pixel and posts the
// difference.
type Bridge struct {
	backend *Backend
	keys    *input.QueueKeys
	pointer *input.QueuePointer

	last    geom.Point
	buttons input.Buttons

	// OnInterrupt runs on the bridge goroutine when Ctrl-C is pressed.
	OnInterrupt func()
}

// NewBridge creates a bridge whose pointer starts at start, which should
// match the window manager's initial cursor position.
func NewBridge(b *Backend, start geom.Point) *Bridge {
	return &Bridge{
		backend: b,
		keys:    input.NewQueueKeys(256),
		pointer: input.NewQueuePointer(),
		last:    start,
	}
}

// Keys is the keystroke source fed by the bridge.
func (br *Bridge) Keys() *input.QueueKeys { return br.keys }

// Pointer is the pointer device fed by the bridge.
func (br *Bridge) Pointer() *input.QueuePointer { return br.pointer }

// Run pumps terminal events until ctx is done or the screen is finalized.
func (br *Bridge) Run(ctx context.Context) error {
	screen := br.backend.screen
	stop := context.AfterFunc(ctx, func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		br.Handle(ev)
	}
}

// Handle converts one event.
func (br *Bridge) Handle(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		br.handleKey(e)
	case *tcell.EventMouse:
		br.handleMouse(e)
	case *tcell.EventResize:
		br.backend.Resync()
	}
}

func (br *Bridge) handleKey(e *tcell.EventKey) {
	if e.Key() == tcell.KeyCtrlC {
		if br.OnInterrupt != nil {
			br.OnInterrupt()
		}
		return
	}
	if b := keyBytes(e); len(b) > 0 {
		br.keys.Post(b)
	}
}

// keyBytes maps a key event to what a serial console would send. Control
// keys in tcell share their ASCII codes; navigation keys have no byte form
// and are dropped.
func keyBytes(e *tcell.EventKey) []byte {
	if e.Key() == tcell.KeyRune {
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], e.Rune())
		return buf[:n]
	}
	// tcell folds DEL into KeyBackspace; both reach the shell as DEL.
	if k := e.Key(); k == tcell.KeyBackspace || k == tcell.KeyBackspace2 {
		return []byte{0x7f}
	}
	if k := e.Key(); k >= 0 && k < 128 {
		return []byte{byte(k)}
	}
	return nil
}

func (br *Bridge) handleMouse(e *tcell.EventMouse) {
	col, row := e.Position()
	x, y := br.backend.metrics.Pixels(col, row)
	// The cursor stops at the display edge; clicks in the terminal margin
	// must not build up deltas it cannot follow.
	w, h := br.backend.DisplaySize()
	x = geom.Clamp(x, 0, w-1)
	y = geom.Clamp(y, 0, h-1)

	mask := e.Buttons()
	var buttons input.Buttons
	if mask&tcell.Button1 != 0 {
		buttons |= input.ButtonLeft
	}
	if mask&tcell.Button2 != 0 {
		buttons |= input.ButtonRight
	}
	if mask&tcell.Button3 != 0 {
		buttons |= input.ButtonMiddle
	}
	scroll := 0
	if mask&tcell.WheelUp != 0 {
		scroll++
	}
	if mask&tcell.WheelDown != 0 {
		scroll--
	}

	s := input.PointerSample{DX: x - br.last.X, DY: y - br.last.Y, Buttons: buttons, Scroll: scroll}
	if !s.Moved() && scroll == 0 && buttons == br.buttons {
		return
	}
	br.last = geom.Point{X: x, Y: y}
	br.buttons = buttons
	br.pointer.Post(s)
}
