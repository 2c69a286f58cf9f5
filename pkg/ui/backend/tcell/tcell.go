// Package tcell presents compositor frames on a terminal through tcell.
package tcell

import (
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/panel/pkg/ui/backend"
	"github.com/odvcencio/panel/pkg/ui/compositor"
)

// Backend implements backend.Backend on a tcell screen.
type Backend struct {
	screen  tcell.Screen
	metrics backend.Metrics
	width   int
	height  int

	mu     sync.Mutex
	prev   *backend.Grid
	resync atomic.Bool
}

// New creates a backend on the controlling terminal. A zero width or height
// is taken from the terminal size at Init.
func New(metrics backend.Metrics, width, height int) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, metrics, width, height), nil
}

// NewWithScreen creates a backend with an existing tcell screen (for testing).
func NewWithScreen(screen tcell.Screen, metrics backend.Metrics, width, height int) *Backend {
	if metrics.CellWidth <= 0 || metrics.CellHeight <= 0 {
		metrics = backend.DefaultMetrics
	}
	return &Backend{screen: screen, metrics: metrics, width: width, height: height}
}

// Init initializes the screen with mouse reporting on.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse()
	b.screen.HideCursor()
	b.screen.Clear()
	return nil
}

// Fini restores the terminal.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Screen exposes the underlying tcell screen.
func (b *Backend) Screen() tcell.Screen { return b.screen }

// Metrics returns the cell size in pixels.
func (b *Backend) Metrics() backend.Metrics { return b.metrics }

// DisplaySize returns the configured pixel size, or the terminal size in
// pixels when none was configured.
func (b *Backend) DisplaySize() (width, height int) {
	width, height = b.width, b.height
	if width <= 0 || height <= 0 {
		cols, rows := b.screen.Size()
		if width <= 0 {
			width = cols * b.metrics.CellWidth
		}
		if height <= 0 {
			height = rows * b.metrics.CellHeight
		}
	}
	return width, height
}

// Resync forces the next Present to rewrite every cell.
func (b *Backend) Resync() {
	b.resync.Store(true)
}

// Present rasterizes the frame and writes only the cells that changed since
// the previous frame.
func (b *Backend) Present(frame compositor.Frame) error {
	grid := backend.Rasterize(frame, b.metrics)

	b.mu.Lock()
	defer b.mu.Unlock()

	prev := b.prev
	if b.resync.Swap(false) {
		prev = nil
		b.screen.Sync()
	}
	for _, pos := range grid.Changed(prev) {
		c := grid.At(pos[0], pos[1])
		if c.Rune == 0 {
			continue
		}
		b.screen.SetContent(pos[0], pos[1], c.Rune, nil, convertStyle(c))
	}
	b.screen.Show()
	b.prev = grid
	return nil
}

func convertStyle(c backend.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(convertColor(c.FG)).
		Background(convertColor(c.BG))
}

func convertColor(c compositor.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Ensure Backend implements backend.Backend
var _ backend.Backend = (*Backend)(nil)
