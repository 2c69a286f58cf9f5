package wm

import (
	"github.com/odvcencio/panel/pkg/logging"
	"github.com/odvcencio/panel/pkg/telemetry"
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
)

// DragPhase is the state of an interactive window move.
type DragPhase int

const (
	// DragIdle means normal dispatch.
	DragIdle DragPhase = iota
	// DragDragging means the outline follows the pointer and all other
	// interaction is frozen.
	DragDragging
	// DragCommitting means the button was released and the window is
	// about to move to the outline.
	DragCommitting
)

func (p DragPhase) String() string {
	switch p {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

type dragState struct {
	phase   DragPhase
	window  *Window
	frame   geom.Point
	outline compositor.Handle
}

func (d *Desktop) beginDrag(w *Window) {
	b := w.bounds
	outline := d.comp.CreateSurface(compositor.KindOutline, b)
	d.comp.SetContent(outline, compositor.StrokeRect{Rect: geom.NewRect(0, 0, b.Width, b.Height), Color: compositor.White})
	d.drag = dragState{phase: DragDragging, window: w, frame: b.Origin(), outline: outline}
	d.publish(eventFor(telemetry.EventDragStarted, w))
}

// tickDrag advances the drag by one pointer sample. A tick with no sample
// changes nothing.
func (d *Desktop) tickDrag() {
	if d.drag.phase == DragDragging {
		sample, ok := d.input.SamplePointer()
		if !ok {
			return
		}
		d.prevButtons = sample.Buttons
		if sample.Moved() {
			dx, dy := sample.DX*d.speed, sample.DY*d.speed
			d.cursor.Move(dx, dy)

			w := d.drag.window.bounds
			disp := d.comp.Display()
			d.drag.frame = geom.Point{
				X: geom.Clamp(d.drag.frame.X+dx, 0, disp.Width-w.Width),
				Y: geom.Clamp(d.drag.frame.Y+dy, 0, disp.Height-w.Height),
			}
			d.comp.SetGeometry(d.drag.outline, d.drag.frame.X, d.drag.frame.Y, w.Width, w.Height)
		}
		if !sample.Buttons.Primary() {
			d.drag.phase = DragCommitting
		}
	}
	if d.drag.phase == DragCommitting {
		d.commitDrag()
	}
}

func (d *Desktop) commitDrag() {
	w := d.drag.window
	dx, dy := d.drag.frame.X-w.bounds.X, d.drag.frame.Y-w.bounds.Y
	w.Translate(dx, dy)
	d.comp.RemoveSurface(d.drag.outline)
	d.drag = dragState{}
	d.metrics.IncDrags()
	d.publish(eventFor(telemetry.EventDragCommitted, w))
	_ = d.log.Debug(logging.CategoryWindow, "drag_committed", "window moved", map[string]any{
		"window": w.id, "dx": dx, "dy": dy,
	})
}
