package backend

import (
	"strings"

	"github.com/odvcencio/panel/pkg/ui/compositor"
)

// Cell is one character cell.
type Cell struct {
	Rune rune
	FG   compositor.Color
	BG   compositor.Color
}

var blankCell = Cell{Rune: ' ', FG: compositor.White, BG: compositor.Black}

// Grid is a rasterized frame.
type Grid struct {
	Cols, Rows int
	cells      []Cell
}

// NewGrid creates a blank grid.
func NewGrid(cols, rows int) *Grid {
	cols, rows = max(cols, 0), max(rows, 0)
	g := &Grid{Cols: cols, Rows: rows, cells: make([]Cell, cols*rows)}
	for i := range g.cells {
		g.cells[i] = blankCell
	}
	return g
}

func (g *Grid) in(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.Cols && row < g.Rows
}

// At returns the cell at (col, row), or a blank cell outside the grid.
func (g *Grid) At(col, row int) Cell {
	if !g.in(col, row) {
		return blankCell
	}
	return g.cells[row*g.Cols+col]
}

func (g *Grid) ptr(col, row int) *Cell {
	if !g.in(col, row) {
		return nil
	}
	return &g.cells[row*g.Cols+col]
}

// Changed lists the cells that differ from prev, in row-major order. A nil
// or differently sized prev marks every cell changed.
func (g *Grid) Changed(prev *Grid) [][2]int {
	var out [][2]int
	full := prev == nil || prev.Cols != g.Cols || prev.Rows != g.Rows
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := row*g.Cols + col
			if full || g.cells[i] != prev.cells[i] {
				out = append(out, [2]int{col, row})
			}
		}
	}
	return out
}

// String renders the runes only, one line per row.
func (g *Grid) String() string {
	var sb strings.Builder
	for row := 0; row < g.Rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < g.Cols; col++ {
			if r := g.cells[row*g.Cols+col].Rune; r != 0 {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}
