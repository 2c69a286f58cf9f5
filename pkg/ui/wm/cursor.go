package wm

import (
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// The pointer arrow. Points are relative to the cursor surface, which sits
// one pixel up and left of the hotspot so the outline stays non-negative.
var (
	cursorOutline = []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 9}, {X: 2, Y: 7}, {X: 5, Y: 10}, {X: 6, Y: 10}, {X: 5, Y: 6}, {X: 7, Y: 6}}
	cursorFill    = []geom.Point{{X: 1, Y: 1}, {X: 1, Y: 8}, {X: 2, Y: 6}, {X: 5, Y: 10}, {X: 5, Y: 9}, {X: 4, Y: 6}, {X: 6, Y: 6}}
)

const (
	cursorWidth  = 8
	cursorHeight = 11
)

// Cursor is the pointer overlay. Its position always lies inside the
// display.
type Cursor struct {
	comp      *compositor.Compositor
	surface   compositor.Handle
	display   geom.Rect
	pos       geom.Point
	tipOffset int
}

func newCursor(comp *compositor.Compositor) *Cursor {
	display := comp.Display()
	c := &Cursor{
		comp:    comp,
		display: display,
		pos:     geom.Point{X: display.Width / 2, Y: display.Height / 2},
	}
	c.surface = comp.CreateSurface(compositor.KindCursor, c.rect())
	comp.SetContent(c.surface,
		compositor.Polygon{Points: cursorOutline, Color: compositor.Black},
		compositor.Polygon{Points: cursorFill, Color: compositor.White},
	)
	return c
}

func (c *Cursor) rect() geom.Rect {
	return geom.NewRect(c.pos.X-1, c.pos.Y-1, cursorWidth, cursorHeight)
}

// Position returns the hotspot.
func (c *Cursor) Position() geom.Point { return c.pos }

// Tip returns the point clicks are resolved at.
func (c *Cursor) Tip() geom.Point {
	return geom.Point{X: c.pos.X - c.tipOffset, Y: c.pos.Y - c.tipOffset}
}

// Move shifts the cursor, clamping to the display.
func (c *Cursor) Move(dx, dy int) {
	c.MoveTo(c.pos.X+dx, c.pos.Y+dy)
}

// MoveTo places the cursor, clamping to the display.
func (c *Cursor) MoveTo(x, y int) {
	c.pos = geom.Point{
		X: geom.Clamp(x, 0, c.display.Width-1),
		Y: geom.Clamp(y, 0, c.display.Height-1),
	}
	r := c.rect()
	c.comp.SetGeometry(c.surface, r.X, r.Y, r.Width, r.Height)
}

// Surface returns the cursor overlay surface.
func (c *Cursor) Surface() compositor.Handle { return c.surface }
