package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

func TestSimulationRoundTrip(t *testing.T) {
	b := New(120, 48)
	defer b.Fini()

	c := compositor.New(b, 120, 48)
	bg := c.CreateSurface(compositor.KindBackground, geom.NewRect(0, 0, 120, 48))
	c.SetContent(bg, compositor.FillRect{Rect: geom.NewRect(0, 0, 120, 48), Color: compositor.Desktop})
	win := c.CreateSurface(compositor.KindWindow, geom.NewRect(12, 8, 60, 24))
	c.SetContent(win,
		compositor.FillRect{Rect: geom.NewRect(0, 0, 60, 24), Color: compositor.White},
		compositor.Text{X: 6, Y: 0, Text: "Notes", Color: compositor.Black},
	)

	require.NoError(t, c.Repaint())
	require.NoError(t, c.Repaint())
	assert.Equal(t, 1, b.Frames())

	x, y := b.FindText("Notes")
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
	assert.True(t, b.ContainsText("Notes"))
	assert.False(t, b.ContainsText("Missing"))

	assert.Equal(t, compositor.Desktop, b.CaptureCell(0, 0).BG)
	assert.Equal(t, compositor.White, b.CaptureCell(4, 2).BG)

	c.SetGeometry(win, 36, 8, 60, 24)
	require.NoError(t, c.Repaint())
	x, _ = b.FindText("Notes")
	assert.Equal(t, 7, x)
	assert.Equal(t, compositor.Desktop, b.CaptureCell(2, 2).BG)
}
