// Package sim provides a simulation backend for testing.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/panel/pkg/ui/backend"
	"github.com/odvcencio/panel/pkg/ui/backend/tcell"
	"github.com/odvcencio/panel/pkg/ui/compositor"
)

// Backend renders onto tcell's simulation screen so tests can read back
// what a terminal would show.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
	frames int
}

// New creates a simulation backend showing a display of the given pixel
// size with the default cell metrics. It is initialized and ready to
// present.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("")
	cols, rows := backend.DefaultMetrics.Cells(width, height)
	b := &Backend{
		Backend: tcell.NewWithScreen(screen, backend.DefaultMetrics, width, height),
		screen:  screen,
	}
	_ = b.Backend.Init()
	screen.SetSize(cols, rows)
	return b
}

// Present renders the frame and counts it.
func (s *Backend) Present(frame compositor.Frame) error {
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
	return s.Backend.Present(frame)
}

// Frames is the number of frames presented.
func (s *Backend) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Capture captures the current screen content as a string.
func (s *Backend) Capture() string {
	w, h := s.screen.Size()
	return s.CaptureRegion(0, 0, w, h)
}

// CaptureCell returns the rune and colors of a single cell.
func (s *Backend) CaptureCell(col, row int) backend.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, style, _ := s.screen.GetContent(col, row)
	fg, bg, _ := style.Decompose()
	return backend.Cell{Rune: m, FG: toColor(fg), BG: toColor(bg)}
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, _, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// FindText searches for text on the screen and returns its cell position.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if i := strings.Index(line, text); i >= 0 {
			return len([]rune(line[:i])), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, y := s.FindText(text)
	return x >= 0 && y >= 0
}

// InjectMouse queues a terminal mouse event at a cell.
func (s *Backend) InjectMouse(col, row int, buttons tcellv2.ButtonMask) {
	s.screen.InjectMouse(col, row, buttons, tcellv2.ModNone)
}

// InjectKeyString queues one key event per rune.
func (s *Backend) InjectKeyString(str string) {
	for _, r := range str {
		s.screen.InjectKey(tcellv2.KeyRune, r, tcellv2.ModNone)
	}
}

func toColor(c tcellv2.Color) compositor.Color {
	if hex := c.Hex(); hex >= 0 {
		return compositor.Color(hex)
	}
	return compositor.Black
}

var _ backend.Backend = (*Backend)(nil)
