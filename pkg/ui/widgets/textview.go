package widgets

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/odvcencio/panel/pkg/ui/compositor"
)

// TextView displays read-only text, word-wrapped to its width.
type TextView struct {
	Base
	text  string
	lines []string
}

// NewTextView creates a text view.
func NewTextView(x, y, w, h int, text string) *TextView {
	v := &TextView{Base: newBase(x, y, w, h)}
	v.setText(text)
	return v
}

// Text returns the unwrapped text.
func (v *TextView) Text() string { return v.text }

// Lines returns the wrapped lines.
func (v *TextView) Lines() []string { return v.lines }

// SetText replaces the text and rewraps it.
func (v *TextView) SetText(text string) {
	v.setText(text)
	v.Draw()
}

func (v *TextView) setText(text string) {
	v.text = text
	v.lines = wrapText(text, v.rel.Width/GlyphWidth)
}

// wrapText breaks on word boundaries and hard-splits words longer than
// the budget.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	wrapped := wrap.String(wordwrap.String(text, width), width)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func (v *TextView) Draw() {
	shapes := v.frame()
	maxLines := max(1, (v.rel.Height-2)/LineHeight)
	for i, line := range v.lines {
		if i >= maxLines {
			break
		}
		if line == "" {
			continue
		}
		shapes = append(shapes, compositor.Text{X: 2, Y: i*LineHeight + 2, Text: line, Color: compositor.Black})
	}
	v.paint(shapes...)
}
