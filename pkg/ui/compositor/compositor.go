// Package compositor keeps the scene graph that the window manager describes
// and presents it to a Renderer. It never computes pixels: surfaces carry
// display lists of rectangles, text runs and polygons, ordered by tier and
// raise order.
package compositor

import (
	"fmt"
	"slices"

	"github.com/odvcencio/panel/pkg/ui/geom"
)

// Kind classifies a surface. Root surfaces are painted tier by tier in the
// order the kinds are declared, so the cursor is always on top.
type Kind int

const (
	KindBackground Kind = iota
	KindWindow
	KindWidget
	KindOutline
	KindCursor
)

func (k Kind) String() string {
	switch k {
	case KindBackground:
		return "background"
	case KindWindow:
		return "window"
	case KindWidget:
		return "widget"
	case KindOutline:
		return "outline"
	case KindCursor:
		return "cursor"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Handle identifies a surface. The zero Handle is never issued.
type Handle uint64

type surface struct {
	kind     Kind
	parent   Handle
	bounds   geom.Rect // parent-relative
	hidden   bool
	shapes   []Shape
	children []Handle
}

// Stats counts presentation work.
type Stats struct {
	Presents uint64
	Skipped  uint64
}

// Compositor is owned by the dispatch loop and is not safe for concurrent
// use.
type Compositor struct {
	renderer Renderer
	display  geom.Rect
	surfaces map[Handle]*surface
	roots    []Handle
	next     Handle
	dirty    bool
	stats    Stats
}

// New creates a compositor for a display of the given pixel size.
func New(renderer Renderer, width, height int) *Compositor {
	return &Compositor{
		renderer: renderer,
		display:  geom.NewRect(0, 0, width, height),
		surfaces: make(map[Handle]*surface),
		dirty:    true,
	}
}

// Display returns the display rectangle.
func (c *Compositor) Display() geom.Rect { return c.display }

// Stats returns presentation counters.
func (c *Compositor) Stats() Stats { return c.stats }

// Dirty reports whether a repaint would present.
func (c *Compositor) Dirty() bool { return c.dirty }

// Invalidate forces the next Repaint to present.
func (c *Compositor) Invalidate() { c.dirty = true }

// CreateSurface adds a top-level surface above every surface of its tier.
func (c *Compositor) CreateSurface(kind Kind, bounds geom.Rect) Handle {
	h := c.alloc(kind, 0, bounds)
	c.roots = append(c.roots, h)
	return h
}

// CreateChild adds a surface inside parent, positioned relative to the
// parent's origin and painted after the parent's existing children.
// It returns 0 if parent does not exist.
func (c *Compositor) CreateChild(parent Handle, kind Kind, bounds geom.Rect) Handle {
	p, ok := c.surfaces[parent]
	if !ok {
		return 0
	}
	h := c.alloc(kind, parent, bounds)
	p.children = append(p.children, h)
	return h
}

func (c *Compositor) alloc(kind Kind, parent Handle, bounds geom.Rect) Handle {
	c.next++
	h := c.next
	c.surfaces[h] = &surface{kind: kind, parent: parent, bounds: bounds}
	c.dirty = true
	return h
}

// Exists reports whether h names a live surface.
func (c *Compositor) Exists(h Handle) bool {
	_, ok := c.surfaces[h]
	return ok
}

// SetGeometry moves and resizes a surface within its parent.
func (c *Compositor) SetGeometry(h Handle, x, y, w, hgt int) {
	s, ok := c.surfaces[h]
	if !ok {
		return
	}
	r := geom.NewRect(x, y, w, hgt)
	if s.bounds == r {
		return
	}
	s.bounds = r
	c.dirty = true
}

// Geometry returns a surface's parent-relative bounds.
func (c *Compositor) Geometry(h Handle) (geom.Rect, bool) {
	s, ok := c.surfaces[h]
	if !ok {
		return geom.Rect{}, false
	}
	return s.bounds, true
}

// AbsoluteBounds returns a surface's bounds in display coordinates.
func (c *Compositor) AbsoluteBounds(h Handle) (geom.Rect, bool) {
	s, ok := c.surfaces[h]
	if !ok {
		return geom.Rect{}, false
	}
	r := s.bounds
	for p := s.parent; p != 0; {
		ps := c.surfaces[p]
		r = r.Translate(ps.bounds.X, ps.bounds.Y)
		p = ps.parent
	}
	return r, true
}

// SetContent replaces a surface's display list.
func (c *Compositor) SetContent(h Handle, shapes ...Shape) {
	s, ok := c.surfaces[h]
	if !ok {
		return
	}
	s.shapes = shapes
	c.dirty = true
}

// Content returns a surface's display list.
func (c *Compositor) Content(h Handle) []Shape {
	if s, ok := c.surfaces[h]; ok {
		return s.shapes
	}
	return nil
}

// SetHidden shows or hides a surface and its subtree.
func (c *Compositor) SetHidden(h Handle, hidden bool) {
	s, ok := c.surfaces[h]
	if !ok || s.hidden == hidden {
		return
	}
	s.hidden = hidden
	c.dirty = true
}

// Hidden reports whether the surface itself is hidden.
func (c *Compositor) Hidden(h Handle) bool {
	s, ok := c.surfaces[h]
	return ok && s.hidden
}

// RemoveSurface deletes a surface and its subtree.
func (c *Compositor) RemoveSurface(h Handle) {
	s, ok := c.surfaces[h]
	if !ok {
		return
	}
	if s.parent == 0 {
		c.roots = slices.DeleteFunc(c.roots, func(r Handle) bool { return r == h })
	} else if p, ok := c.surfaces[s.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(r Handle) bool { return r == h })
	}
	c.drop(h)
	c.dirty = true
}

func (c *Compositor) drop(h Handle) {
	s := c.surfaces[h]
	for _, child := range s.children {
		c.drop(child)
	}
	delete(c.surfaces, h)
}

// RaiseToTop moves a surface to the end of its sibling list, which puts a
// root surface above every other root of the same tier.
func (c *Compositor) RaiseToTop(h Handle) {
	s, ok := c.surfaces[h]
	if !ok {
		return
	}
	siblings := &c.roots
	if s.parent != 0 {
		siblings = &c.surfaces[s.parent].children
	}
	i := slices.Index(*siblings, h)
	if i < 0 || i == len(*siblings)-1 {
		return
	}
	*siblings = append(slices.Delete(*siblings, i, i+1), h)
	c.dirty = true
}

// Order returns the root surfaces of a kind, back to front. Hidden
// surfaces are included.
func (c *Compositor) Order(kind Kind) []Handle {
	var out []Handle
	for _, h := range c.roots {
		if s := c.surfaces[h]; s.kind == kind {
			out = append(out, h)
		}
	}
	return out
}

// Frame flattens the visible scene, back to front.
func (c *Compositor) Frame() Frame {
	f := Frame{Width: c.display.Width, Height: c.display.Height}
	for tier := KindBackground; tier <= KindCursor; tier++ {
		for _, h := range c.roots {
			if c.surfaces[h].kind == tier {
				f.Layers = c.flatten(f.Layers, h, geom.Point{}, c.display)
			}
		}
	}
	return f
}

func (c *Compositor) flatten(layers []Layer, h Handle, origin geom.Point, clip geom.Rect) []Layer {
	s := c.surfaces[h]
	if s.hidden {
		return layers
	}
	abs := s.bounds.Translate(origin.X, origin.Y)
	clip = clip.Intersection(abs)
	if clip.Empty() {
		return layers
	}
	layers = append(layers, Layer{
		Handle: h,
		Kind:   s.kind,
		Origin: abs.Origin(),
		Clip:   clip,
		Shapes: s.shapes,
	})
	for _, child := range s.children {
		layers = c.flatten(layers, child, abs.Origin(), clip)
	}
	return layers
}

// Repaint presents the scene if anything changed since the last present.
func (c *Compositor) Repaint() error {
	if !c.dirty {
		c.stats.Skipped++
		return nil
	}
	if c.renderer != nil {
		if err := c.renderer.Present(c.Frame()); err != nil {
			return err
		}
	}
	c.dirty = false
	c.stats.Presents++
	return nil
}
