package compositor

import "github.com/odvcencio/panel/pkg/ui/geom"

// Color is a 24-bit 0xRRGGBB color.
type Color uint32

const (
	Black     Color = 0x000000
	White     Color = 0xFFFFFF
	Red       Color = 0xFF0000
	LightGray Color = 0xCCCCCC
	Gray      Color = 0x888888
	DarkGray  Color = 0x444444
	Desktop   Color = 0x008080
	CloseRed  Color = 0xFF605C
	MinAmber  Color = 0xFFBD44
	MaxGreen  Color = 0x00CA56
)

// RGB splits the color into components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Shape is one display-list primitive. Coordinates are relative to the
// owning surface's origin.
type Shape interface {
	isShape()
}

// FillRect paints a solid rectangle.
type FillRect struct {
	Rect  geom.Rect
	Color Color
}

// StrokeRect paints a one-pixel rectangle outline.
type StrokeRect struct {
	Rect  geom.Rect
	Color Color
}

// Text is a run of glyphs whose top-left corner is at (X, Y).
type Text struct {
	X, Y  int
	Text  string
	Color Color
}

// Circle is a filled disc.
type Circle struct {
	Center geom.Point
	Radius int
	Color  Color
}

// Polygon is a filled polygon.
type Polygon struct {
	Points []geom.Point
	Color  Color
}

func (FillRect) isShape()   {}
func (StrokeRect) isShape() {}
func (Text) isShape()       {}
func (Circle) isShape()     {}
func (Polygon) isShape()    {}
