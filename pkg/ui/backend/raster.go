package backend

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// Rasterize paints a frame, layer by layer, onto a new grid.
//
// Filled areas cover a cell when they contain the cell's center pixel.
// Outlines, text and circles mark every cell they touch.
func Rasterize(frame compositor.Frame, m Metrics) *Grid {
	m = m.normalized()
	cols, rows := m.Cells(frame.Width, frame.Height)
	r := &rasterizer{grid: NewGrid(cols, rows), m: m}
	for _, layer := range frame.Layers {
		r.clip = layer.Clip
		for _, shape := range layer.Shapes {
			r.paint(layer.Origin, shape)
		}
	}
	return r.grid
}

type rasterizer struct {
	grid *Grid
	m    Metrics
	clip geom.Rect
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func (r *rasterizer) cellRect(col, row int) geom.Rect {
	return geom.NewRect(col*r.m.CellWidth, row*r.m.CellHeight, r.m.CellWidth, r.m.CellHeight)
}

func (r *rasterizer) touches(col, row int) bool {
	return r.cellRect(col, row).Intersects(r.clip)
}

func (r *rasterizer) paint(origin geom.Point, shape compositor.Shape) {
	switch s := shape.(type) {
	case compositor.FillRect:
		r.fill(s.Rect.Translate(origin.X, origin.Y), s.Color)
	case compositor.StrokeRect:
		r.stroke(s.Rect.Translate(origin.X, origin.Y), s.Color)
	case compositor.Text:
		r.text(origin.X+s.X, origin.Y+s.Y, s.Text, s.Color)
	case compositor.Circle:
		r.circle(origin.Add(s.Center), s.Color)
	case compositor.Polygon:
		pts := make([]geom.Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = origin.Add(p)
		}
		r.polygon(pts, s.Color)
	}
}

func (r *rasterizer) fill(rect geom.Rect, color compositor.Color) {
	rect = rect.Intersection(r.clip)
	if rect.Empty() {
		return
	}
	for row := floorDiv(rect.Y, r.m.CellHeight); row <= floorDiv(rect.Bottom()-1, r.m.CellHeight); row++ {
		for col := floorDiv(rect.X, r.m.CellWidth); col <= floorDiv(rect.Right()-1, r.m.CellWidth); col++ {
			x, y := r.m.Pixels(col, row)
			if !rect.Contains(x, y) {
				continue
			}
			if c := r.grid.ptr(col, row); c != nil {
				*c = Cell{Rune: ' ', FG: c.FG, BG: color}
			}
		}
	}
}

func (r *rasterizer) mark(col, row int, ch rune, fg compositor.Color) {
	if !r.touches(col, row) {
		return
	}
	if c := r.grid.ptr(col, row); c != nil {
		c.Rune = ch
		c.FG = fg
	}
}

func (r *rasterizer) stroke(rect geom.Rect, color compositor.Color) {
	if rect.Empty() {
		return
	}
	left, right := floorDiv(rect.X, r.m.CellWidth), floorDiv(rect.Right()-1, r.m.CellWidth)
	top, bottom := floorDiv(rect.Y, r.m.CellHeight), floorDiv(rect.Bottom()-1, r.m.CellHeight)

	for col := left + 1; col < right; col++ {
		r.mark(col, top, '─', color)
		r.mark(col, bottom, '─', color)
	}
	for row := top + 1; row < bottom; row++ {
		r.mark(left, row, '│', color)
		r.mark(right, row, '│', color)
	}
	r.mark(left, top, '┌', color)
	r.mark(right, top, '┐', color)
	r.mark(left, bottom, '└', color)
	r.mark(right, bottom, '┘', color)
}

func (r *rasterizer) text(x, y int, s string, color compositor.Color) {
	col := floorDiv(x+r.m.CellWidth/2, r.m.CellWidth)
	row := floorDiv(y+r.m.CellHeight/2, r.m.CellHeight)
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		r.mark(col, row, ch, color)
		for i := 1; i < w; i++ {
			r.mark(col+i, row, 0, color)
		}
		col += w
	}
}

func (r *rasterizer) circle(center geom.Point, color compositor.Color) {
	r.mark(floorDiv(center.X, r.m.CellWidth), floorDiv(center.Y, r.m.CellHeight), '●', color)
}

// polygon recolors the background of covered cells and keeps their runes,
// so small overlays such as the pointer do not erase text underneath.
func (r *rasterizer) polygon(pts []geom.Point, color compositor.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	covered := false
	for row := floorDiv(minY, r.m.CellHeight); row <= floorDiv(maxY, r.m.CellHeight); row++ {
		for col := floorDiv(minX, r.m.CellWidth); col <= floorDiv(maxX, r.m.CellWidth); col++ {
			x, y := r.m.Pixels(col, row)
			if !r.clip.Contains(x, y) || !insidePolygon(pts, x, y) {
				continue
			}
			if c := r.grid.ptr(col, row); c != nil {
				c.BG = color
				covered = true
			}
		}
	}
	if covered {
		return
	}
	col, row := floorDiv(pts[0].X, r.m.CellWidth), floorDiv(pts[0].Y, r.m.CellHeight)
	if !r.touches(col, row) {
		return
	}
	if c := r.grid.ptr(col, row); c != nil {
		c.BG = color
	}
}

// insidePolygon is the even-odd crossing test.
func insidePolygon(pts []geom.Point, x, y int) bool {
	inside := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) {
			cross := pi.X + (y-pi.Y)*(pj.X-pi.X)/(pj.Y-pi.Y)
			if x < cross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
