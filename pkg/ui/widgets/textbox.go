package widgets

import (
	"strings"
	"time"

	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// BlinkInterval is how long the caret stays in each blink phase.
const BlinkInterval = 500 * time.Millisecond

// Blinker is implemented by widgets with time-driven animation. Blink
// reports whether the widget changed.
type Blinker interface {
	Blink(now time.Time) bool
}

// TextBox is an editable multi-line text area with a caret.
type TextBox struct {
	Base
	text      string
	cutoff    int
	caretOn   bool
	lastBlink time.Time
}

// NewTextBox creates a text box. The line budget is width/6 glyphs.
func NewTextBox(x, y, w, h int, text string) *TextBox {
	return &TextBox{
		Base:    newBase(x, y, w, h),
		text:    text,
		cutoff:  w / GlyphWidth,
		caretOn: true,
	}
}

// AutoFocus makes a newly added text box the focused widget.
func (t *TextBox) AutoFocus() bool { return true }

// Text returns the current contents.
func (t *TextBox) Text() string { return t.text }

// SetText replaces the contents.
func (t *TextBox) SetText(text string) {
	t.text = text
	t.Draw()
}

// CaretVisible reports the current blink phase.
func (t *TextBox) CaretVisible() bool { return t.caretOn }

// OnKey applies a batch of typed bytes.
func (t *TextBox) OnKey(text string) {
	changed := false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == 8 || c == 127:
			if t.text != "" {
				t.text = t.text[:len(t.text)-1]
				changed = true
			}
		case c == '\n' || c == '\r':
			t.text += "\n"
			changed = true
		case c >= 32 && c <= 126:
			if len(t.lastLine()) >= t.cutoff {
				t.text += "\n"
			}
			t.text += string(c)
			changed = true
		}
	}
	if changed {
		t.caretOn = true
		t.Draw()
	}
}

// OnClick keeps focus on the box; the caret always sits at the end.
func (t *TextBox) OnClick(x, y int) {}

// Blink toggles the caret once per BlinkInterval.
func (t *TextBox) Blink(now time.Time) bool {
	if t.lastBlink.IsZero() {
		t.lastBlink = now
		return false
	}
	if now.Sub(t.lastBlink) < BlinkInterval {
		return false
	}
	t.lastBlink = now
	t.caretOn = !t.caretOn
	t.Draw()
	return true
}

func (t *TextBox) lastLine() string {
	if i := strings.LastIndexByte(t.text, '\n'); i >= 0 {
		return t.text[i+1:]
	}
	return t.text
}

// visibleLines returns the tail of the text that fits the box.
func (t *TextBox) visibleLines() []string {
	lines := strings.Split(t.text, "\n")
	maxLines := max(1, (t.rel.Height-2)/LineHeight)
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Caret returns the caret rectangle relative to the box.
func (t *TextBox) Caret() geom.Rect {
	lines := t.visibleLines()
	x := len(lines[len(lines)-1])*GlyphWidth + 2
	y := min((len(lines)-1)*LineHeight+2, t.rel.Height-12)
	return geom.NewRect(x, y, 2, LineHeight)
}

func (t *TextBox) Draw() {
	shapes := t.frame()
	for i, line := range t.visibleLines() {
		if line == "" {
			continue
		}
		shapes = append(shapes, compositor.Text{X: 2, Y: i*LineHeight + 2, Text: line, Color: compositor.Black})
	}
	if t.caretOn {
		shapes = append(shapes, compositor.FillRect{Rect: t.Caret(), Color: compositor.Black})
	}
	t.paint(shapes...)
}
