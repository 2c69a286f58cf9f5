package widgets

import "github.com/odvcencio/panel/pkg/ui/compositor"

// Label is a single line of static text sized to its content.
type Label struct {
	Base
	text string
}

// NewLabel creates a label at a window-relative position.
func NewLabel(x, y int, text string) *Label {
	return &Label{Base: newBase(x, y, len(text)*GlyphWidth, GlyphHeight), text: text}
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText replaces the text and resizes the label to fit.
func (l *Label) SetText(text string) {
	l.text = text
	l.setSize(len(text)*GlyphWidth, GlyphHeight)
	l.Draw()
}

func (l *Label) Draw() {
	l.paint(compositor.Text{Text: l.text, Color: compositor.Black})
}
