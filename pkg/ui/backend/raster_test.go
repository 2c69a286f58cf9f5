package backend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

func frameOf(w, h int, layers ...compositor.Layer) compositor.Frame {
	return compositor.Frame{Width: w, Height: h, Layers: layers}
}

func layer(origin geom.Point, clip geom.Rect, shapes ...compositor.Shape) compositor.Layer {
	return compositor.Layer{Origin: origin, Clip: clip, Shapes: shapes}
}

func TestRasterizeGridSize(t *testing.T) {
	g := Rasterize(frameOf(320, 240), DefaultMetrics)
	assert.Equal(t, 54, g.Cols)
	assert.Equal(t, 30, g.Rows)
}

func TestRasterizeFillUsesCellCenters(t *testing.T) {
	full := geom.NewRect(0, 0, 60, 40)
	g := Rasterize(frameOf(60, 40, layer(geom.Point{}, full,
		compositor.FillRect{Rect: geom.NewRect(6, 8, 12, 8), Color: compositor.Red},
	)), DefaultMetrics)

	assert.Equal(t, compositor.Red, g.At(1, 1).BG)
	assert.Equal(t, compositor.Red, g.At(2, 1).BG)
	assert.Equal(t, compositor.Black, g.At(3, 1).BG)
	assert.Equal(t, compositor.Black, g.At(1, 0).BG)
}

func TestRasterizeFillRespectsClip(t *testing.T) {
	g := Rasterize(frameOf(60, 40, layer(geom.Point{}, geom.NewRect(0, 0, 12, 40),
		compositor.FillRect{Rect: geom.NewRect(0, 0, 60, 40), Color: compositor.White},
	)), DefaultMetrics)

	assert.Equal(t, compositor.White, g.At(1, 0).BG)
	assert.Equal(t, compositor.Black, g.At(2, 0).BG)
}

func TestRasterizeTextOffsetByOrigin(t *testing.T) {
	full := geom.NewRect(0, 0, 120, 40)
	g := Rasterize(frameOf(120, 40, layer(geom.Point{X: 12, Y: 8}, full,
		compositor.Text{X: 6, Y: 0, Text: "hi", Color: compositor.Black},
	)), DefaultMetrics)

	lines := strings.Split(g.String(), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "   hi", strings.TrimRight(lines[1], " "))
	assert.Equal(t, compositor.Black, g.At(3, 1).FG)
}

func TestRasterizeStrokeBox(t *testing.T) {
	full := geom.NewRect(0, 0, 30, 24)
	g := Rasterize(frameOf(30, 24, layer(geom.Point{}, full,
		compositor.StrokeRect{Rect: geom.NewRect(0, 0, 30, 24), Color: compositor.White},
	)), DefaultMetrics)

	want := "┌───┐\n│   │\n└───┘"
	assert.Equal(t, want, g.String())
}

func TestRasterizeLaterLayersWin(t *testing.T) {
	full := geom.NewRect(0, 0, 12, 8)
	g := Rasterize(frameOf(12, 8,
		layer(geom.Point{}, full, compositor.Text{Text: "ab", Color: compositor.White}),
		layer(geom.Point{}, full, compositor.FillRect{Rect: full, Color: compositor.Gray}),
	), DefaultMetrics)

	assert.Equal(t, "  ", g.String())
	assert.Equal(t, compositor.Gray, g.At(0, 0).BG)
}

func TestRasterizePolygonKeepsRune(t *testing.T) {
	full := geom.NewRect(0, 0, 30, 16)
	pointer := []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 7}, {X: 1, Y: 5}, {X: 4, Y: 9}, {X: 4, Y: 8}, {X: 3, Y: 5}, {X: 5, Y: 5}}
	g := Rasterize(frameOf(30, 16,
		layer(geom.Point{}, full, compositor.Text{X: 12, Y: 0, Text: "x", Color: compositor.Black}),
		layer(geom.Point{X: 12, Y: 0}, full, compositor.Polygon{Points: pointer, Color: compositor.White}),
	), DefaultMetrics)

	c := g.At(2, 0)
	assert.Equal(t, 'x', c.Rune)
	assert.Equal(t, compositor.White, c.BG)
}

func TestRasterizeCircle(t *testing.T) {
	full := geom.NewRect(0, 0, 30, 16)
	g := Rasterize(frameOf(30, 16, layer(geom.Point{}, full,
		compositor.Circle{Center: geom.Point{X: 14, Y: 6}, Radius: 2, Color: compositor.CloseRed},
	)), DefaultMetrics)

	assert.Equal(t, '●', g.At(2, 0).Rune)
	assert.Equal(t, compositor.CloseRed, g.At(2, 0).FG)
}

func TestGridChanged(t *testing.T) {
	a := NewGrid(3, 2)
	assert.Len(t, a.Changed(nil), 6)

	b := NewGrid(3, 2)
	assert.Empty(t, b.Changed(a))

	b.ptr(1, 1).Rune = 'z'
	assert.Equal(t, [][2]int{{1, 1}}, b.Changed(a))
	assert.Len(t, b.Changed(NewGrid(2, 2)), 6)
}

func TestMetrics(t *testing.T) {
	cols, rows := DefaultMetrics.Cells(100, 80)
	assert.Equal(t, 17, cols)
	assert.Equal(t, 10, rows)

	x, y := Metrics{}.Pixels(2, 3)
	assert.Equal(t, 15, x)
	assert.Equal(t, 28, y)
}

func TestInsidePolygon(t *testing.T) {
	square := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	assert.True(t, insidePolygon(square, 5, 5))
	assert.False(t, insidePolygon(square, 15, 5))
}
