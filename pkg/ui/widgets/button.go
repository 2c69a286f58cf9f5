package widgets

import (
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// Button runs a callback when clicked, flashing a pressed state first.
type Button struct {
	Base
	text    string
	onPress func()
	pressed bool
}

// NewButton creates a button. onPress may be nil.
func NewButton(x, y, w, h int, text string, onPress func()) *Button {
	return &Button{Base: newBase(x, y, w, h), text: text, onPress: onPress}
}

// Text returns the caption.
func (b *Button) Text() string { return b.text }

// SetText replaces the caption.
func (b *Button) SetText(text string) {
	b.text = text
	b.Draw()
}

// Pressed reports whether the button is showing its pressed state.
func (b *Button) Pressed() bool { return b.pressed }

// OnClick shows the pressed fill, runs the callback, waits the press
// delay and restores the normal fill.
func (b *Button) OnClick(x, y int) {
	if !b.InBounds(x, y) {
		return
	}
	b.pressed = true
	b.Draw()
	if h := b.host; h != nil {
		h.Present()
	}
	if b.onPress != nil {
		b.onPress()
	}
	if h := b.host; h != nil {
		h.Pause()
	}
	b.pressed = false
	b.Draw()
}

func (b *Button) Draw() {
	fill := compositor.White
	if b.pressed {
		fill = compositor.LightGray
	}
	r := geom.NewRect(0, 0, b.rel.Width, b.rel.Height)
	text := truncate(b.text, (b.rel.Width-2)/GlyphWidth)
	b.paint(
		compositor.FillRect{Rect: r, Color: fill},
		compositor.StrokeRect{Rect: r, Color: compositor.Black},
		compositor.Text{
			X:     (b.rel.Width - len(text)*GlyphWidth) / 2,
			Y:     (b.rel.Height - GlyphHeight) / 2,
			Text:  text,
			Color: compositor.Black,
		},
	)
}
