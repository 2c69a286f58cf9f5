package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/panel/pkg/ui/backend/sim"
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/widgets"
)

func TestDesktopOnSimulatedTerminal(t *testing.T) {
	screen := sim.New(320, 240)
	defer screen.Fini()

	h := newHarnessWith(t, compositor.New(screen, 320, 240), Options{})
	w := h.window(60, 40, 180, 120, "Notes")
	require.NoError(t, w.AddWidget(widgets.NewLabel(6, 6, "hello")))
	h.d.Tick()

	assert.True(t, screen.ContainsText("Notes"))
	assert.True(t, screen.ContainsText("hello"))
	assert.Equal(t, compositor.Desktop, screen.CaptureCell(0, 0).BG)

	h.click(66, 46)
	assert.True(t, w.Closed())
	assert.False(t, screen.ContainsText("Notes"))
	assert.False(t, screen.ContainsText("hello"))
}
