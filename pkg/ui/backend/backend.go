// Package backend rasterizes compositor frames onto character-cell screens.
// One cell stands for a CellWidth x CellHeight block of display pixels, so
// the pixel geometry the window manager works in maps onto a terminal grid.
package backend

import "github.com/odvcencio/panel/pkg/ui/compositor"

// Backend is a Renderer with a lifecycle.
type Backend interface {
	compositor.Renderer

	// Init acquires the output device.
	Init() error

	// Fini releases the output device and restores its state.
	Fini()

	// DisplaySize is the pixel area the backend shows.
	DisplaySize() (width, height int)
}

// Metrics is the pixel size of one character cell.
type Metrics struct {
	CellWidth  int
	CellHeight int
}

// DefaultMetrics matches the 6x8 bitmap font the window chrome is laid out
// for.
var DefaultMetrics = Metrics{CellWidth: 6, CellHeight: 8}

func (m Metrics) normalized() Metrics {
	if m.CellWidth <= 0 {
		m.CellWidth = DefaultMetrics.CellWidth
	}
	if m.CellHeight <= 0 {
		m.CellHeight = DefaultMetrics.CellHeight
	}
	return m
}

// Cells converts a pixel size to whole cells, rounding up.
func (m Metrics) Cells(width, height int) (cols, rows int) {
	m = m.normalized()
	return (width + m.CellWidth - 1) / m.CellWidth, (height + m.CellHeight - 1) / m.CellHeight
}

// Pixels converts a cell position to the pixel at its center.
func (m Metrics) Pixels(col, row int) (x, y int) {
	m = m.normalized()
	return col*m.CellWidth + m.CellWidth/2, row*m.CellHeight + m.CellHeight/2
}
