package compositor

import "github.com/odvcencio/panel/pkg/ui/geom"

// Layer is one visible surface flattened into display coordinates.
type Layer struct {
	Handle Handle
	Kind   Kind
	// Origin is the surface's absolute top-left; shapes are relative to it.
	Origin geom.Point
	// Clip is the absolute area the surface may paint into.
	Clip   geom.Rect
	Shapes []Shape
}

// Frame is a complete back-to-front scene handed to a Renderer.
type Frame struct {
	Width, Height int
	Layers        []Layer
}

// Renderer turns frames into pixels.
//
//go:generate mockgen -package=compositor -destination=mock_renderer_test.go github.com/odvcencio/panel/pkg/ui/compositor Renderer
type Renderer interface {
	Present(frame Frame) error
}
