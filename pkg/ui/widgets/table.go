package widgets

import (
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

const (
	tableHeaderHeight = 16
	tableRowPitch     = 10
	tableVisiblePitch = 12
	scrollbarWidth    = 6
	scrollbarHitWidth = 8
)

// Table shows rows under column headers with a scroll indicator.
type Table struct {
	Base
	columns  []string
	rows     [][]string
	selected int
	offset   int
}

// NewTable creates a table. No row is selected initially.
func NewTable(x, y, w, h int, columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, errNoColumns
	}
	t := &Table{
		Base:     newBase(x, y, w, h),
		columns:  append([]string(nil), columns...),
		selected: -1,
	}
	for _, r := range rows {
		t.rows = append(t.rows, append([]string(nil), r...))
	}
	return t, nil
}

// AutoFocus makes a newly added table the focused widget.
func (t *Table) AutoFocus() bool { return true }

// Rows returns the number of data rows.
func (t *Table) Rows() int { return len(t.rows) }

// Row returns a copy of one data row.
func (t *Table) Row(i int) []string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return append([]string(nil), t.rows[i]...)
}

// SelectedIndex returns the selected row, or -1.
func (t *Table) SelectedIndex() int { return t.selected }

// ScrollOffset returns the first visible row.
func (t *Table) ScrollOffset() int { return t.offset }

// VisibleRows is the number of rows that fit below the header.
func (t *Table) VisibleRows() int {
	return max(0, (t.rel.Height-tableHeaderHeight)/tableVisiblePitch)
}

// VisibleRange returns the half-open range of rows on screen.
func (t *Table) VisibleRange() (start, end int) {
	return t.offset, min(len(t.rows), t.offset+t.VisibleRows())
}

// AddRow appends a row.
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, append([]string(nil), row...))
	t.Draw()
}

// Select changes the selection. Out-of-range indexes are ignored.
func (t *Table) Select(index int) {
	if index < 0 || index >= len(t.rows) {
		return
	}
	t.selected = index
	t.Draw()
}

func (t *Table) OnClick(x, y int) {
	if !t.InBounds(x, y) {
		return
	}
	if x >= t.AbsX()+t.rel.Width-scrollbarHitWidth {
		return
	}
	rel := y - t.AbsY() - tableHeaderHeight
	if rel < 0 {
		return
	}
	t.Select(t.offset + rel/tableRowPitch)
}

// OnScroll moves one row; a positive value scrolls toward the first row.
func (t *Table) OnScroll(value int) {
	direction := 1
	if value > 0 {
		direction = -1
	}
	next := max(0, min(t.offset+direction, t.scrollRange()))
	if next != t.offset {
		t.offset = next
		t.Draw()
	}
}

func (t *Table) scrollRange() int {
	return max(0, len(t.rows)-t.VisibleRows())
}

// Scrollbar returns the scroll indicator rectangle relative to the table.
func (t *Table) Scrollbar() geom.Rect {
	h := t.rel.Height
	length := float64(t.VisibleRows()) / float64(max(len(t.rows), 1)) * float64(h-tableHeaderHeight)
	n := min(h, int(length))
	y := 0
	if r := t.scrollRange(); r > 0 {
		y = int(float64(t.offset) / float64(r) * float64(h-n))
	}
	return geom.NewRect(t.rel.Width-scrollbarWidth, y, scrollbarWidth, n)
}

func (t *Table) Draw() {
	shapes := t.frame()
	colWidth := t.rel.Width / len(t.columns)
	budget := (colWidth - 2) / GlyphWidth
	for i, col := range t.columns {
		shapes = append(shapes, compositor.Text{X: i*colWidth + 2, Y: 4, Text: truncate(col, budget), Color: compositor.Black})
	}
	shapes = append(shapes, compositor.FillRect{Rect: geom.NewRect(2, 14, t.rel.Width-6, 1), Color: compositor.Black})

	start, end := t.VisibleRange()
	for i := start; i < end; i++ {
		color := compositor.Black
		if i == t.selected {
			color = compositor.Red
		}
		top := 18 + (i-start)*tableRowPitch
		for c, cell := range t.rows[i] {
			if c >= len(t.columns) {
				break
			}
			shapes = append(shapes, compositor.Text{X: c*colWidth + 2, Y: top, Text: truncate(cell, budget), Color: color})
		}
	}
	bar := t.Scrollbar()
	if !bar.Empty() {
		shapes = append(shapes,
			compositor.FillRect{Rect: bar, Color: compositor.White},
			compositor.StrokeRect{Rect: bar, Color: compositor.Black})
	}
	t.paint(shapes...)
}
