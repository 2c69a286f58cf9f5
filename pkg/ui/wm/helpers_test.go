package wm

import (
	"testing"
	"time"

	"github.com/odvcencio/panel/pkg/input"
	"github.com/odvcencio/panel/pkg/ui/compositor"
)

type harness struct {
	t      *testing.T
	d      *Desktop
	comp   *compositor.Compositor
	ptr    *input.QueuePointer
	keys   *input.QueueKeys
	sleeps []time.Duration
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, compositor.New(nil, 320, 240), Options{})
}

func newHarnessWith(t *testing.T, comp *compositor.Compositor, opts Options) *harness {
	t.Helper()
	h := &harness{t: t, comp: comp, ptr: input.NewQueuePointer(), keys: input.NewQueueKeys(16)}
	pipe := input.NewPipeline(h.keys, h.ptr, input.Options{RingCapacity: 32})
	if opts.Sleep == nil {
		opts.Sleep = func(d time.Duration) { h.sleeps = append(h.sleeps, d) }
	}
	h.d = NewDesktop(comp, pipe, opts)
	return h
}

func (h *harness) window(x, y, w, ht int, title string) *Window {
	h.t.Helper()
	win, err := h.d.CreateWindow(x, y, w, ht, title)
	if err != nil {
		h.t.Fatalf("CreateWindow(%d,%d,%d,%d,%q): %v", x, y, w, ht, title, err)
	}
	return win
}

// tick feeds one pointer sample and runs one dispatch iteration.
func (h *harness) tick(s input.PointerSample) {
	h.ptr.Post(s)
	h.d.Tick()
}

func (h *harness) press()   { h.tick(input.PointerSample{Buttons: input.ButtonLeft}) }
func (h *harness) release() { h.tick(input.PointerSample{}) }

func (h *harness) click(x, y int) {
	h.d.Cursor().MoveTo(x, y)
	h.press()
	h.release()
}
