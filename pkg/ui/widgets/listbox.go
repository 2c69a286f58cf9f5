package widgets

import "github.com/odvcencio/panel/pkg/ui/compositor"

// ListBox shows a list of items with a single selection.
type ListBox struct {
	Base
	items    []string
	selected int
	offset   int
}

// NewListBox creates a list box. The first item starts selected.
func NewListBox(x, y, w, h int, items []string) *ListBox {
	return &ListBox{
		Base:  newBase(x, y, w, h),
		items: append([]string(nil), items...),
	}
}

// Items returns a copy of the items.
func (l *ListBox) Items() []string { return append([]string(nil), l.items...) }

// SelectedIndex returns the selected row.
func (l *ListBox) SelectedIndex() int { return l.selected }

// ScrollOffset returns the first visible row.
func (l *ListBox) ScrollOffset() int { return l.offset }

// AddItem appends an item.
func (l *ListBox) AddItem(item string) {
	l.items = append(l.items, item)
	l.Draw()
}

// Select changes the selection. Out-of-range indexes are ignored.
func (l *ListBox) Select(index int) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.selected = index
	l.Draw()
}

func (l *ListBox) visible() int {
	return max(1, l.rel.Height/LineHeight)
}

func (l *ListBox) OnClick(x, y int) {
	if !l.InBounds(x, y) {
		return
	}
	l.Select(l.offset + (y-l.AbsY())/LineHeight)
}

// OnScroll moves the visible window by one row.
func (l *ListBox) OnScroll(direction int) {
	next := l.offset + 1
	if direction > 0 {
		next = l.offset - 1
	}
	next = max(0, min(next, max(0, len(l.items)-l.visible())))
	if next != l.offset {
		l.offset = next
		l.Draw()
	}
}

func (l *ListBox) Draw() {
	shapes := l.frame()
	budget := (l.rel.Width - 4) / GlyphWidth
	for row := 0; row < l.visible(); row++ {
		i := l.offset + row
		if i >= len(l.items) {
			break
		}
		color := compositor.Black
		if i == l.selected {
			color = compositor.Red
		}
		shapes = append(shapes, compositor.Text{X: 2, Y: row*LineHeight + 1, Text: truncate(l.items[i], budget), Color: color})
	}
	l.paint(shapes...)
}
