package input

import (
	"sync"
	"time"
)

const maxQueuedSamples = 64

// QueuePointer is a PointerDevice fed by other goroutines, such as a
// terminal event loop. Motion is merged so it never piles up behind a slow
// tick, but never across a button change: a sample whose buttons differ from
// the one before it is an edge and keeps the position it was posted at.
type QueuePointer struct {
	mu    sync.Mutex
	queue []PointerSample
	// held is the button state in effect before the queue head.
	held   Buttons
	notify chan struct{}
}

func NewQueuePointer() *QueuePointer {
	return &QueuePointer{notify: make(chan struct{}, 1)}
}

// Post enqueues s. Deltas larger than one report can carry are split
// across several samples; only the last carries a button change, so the
// edge lands after all of the motion posted with it.
func (q *QueuePointer) Post(s PointerSample) {
	q.mu.Lock()
	prev := q.tail()
	parts := splitSample(s)
	for i, part := range parts {
		if i < len(parts)-1 {
			part.Buttons = prev
		}
		q.push(part)
	}
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// tail is the button state after the last queued sample.
func (q *QueuePointer) tail() Buttons {
	if n := len(q.queue); n > 0 {
		return q.queue[n-1].Buttons
	}
	return q.held
}

func (q *QueuePointer) isEdge(i int) bool {
	before := q.held
	if i > 0 {
		before = q.queue[i-1].Buttons
	}
	return q.queue[i].Buttons != before
}

func (q *QueuePointer) push(s PointerSample) {
	if n := len(q.queue); n > 0 && !q.isEdge(n-1) && q.queue[n-1].Buttons == s.Buttons {
		if merged := addMotion(q.queue[n-1], s); fits8(merged) {
			q.queue[n-1] = merged
			return
		}
	}
	if len(q.queue) >= maxQueuedSamples {
		q.compact()
	}
	q.queue = append(q.queue, s)
}

// compact makes room in a full queue. Motion-only samples are folded into
// the sample after them, which keeps every edge at its posted position.
// When nothing folds, the oldest sample that is not an edge is dropped, and
// only a queue made entirely of edges gives up its head.
func (q *QueuePointer) compact() {
	out := make([]PointerSample, 0, len(q.queue))
	prev := q.held
	for i, s := range q.queue {
		if s.Buttons == prev && s.Scroll == 0 && i+1 < len(q.queue) {
			if next := addMotion(q.queue[i+1], s); fits8(next) {
				q.queue[i+1] = next
				continue
			}
		}
		out = append(out, s)
		prev = s.Buttons
	}
	q.queue = out
	if len(q.queue) < maxQueuedSamples {
		return
	}
	for i := range q.queue {
		if !q.isEdge(i) {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return
		}
	}
	q.held = q.queue[0].Buttons
	q.queue = q.queue[1:]
}

// addMotion adds s's motion to into, keeping into's buttons.
func addMotion(into, s PointerSample) PointerSample {
	into.DX += s.DX
	into.DY += s.DY
	into.Scroll += s.Scroll
	return into
}

func fits8(s PointerSample) bool {
	in := func(v int) bool { return v >= -128 && v <= 127 }
	return in(s.DX) && in(s.DY) && in(s.Scroll)
}

func splitSample(s PointerSample) []PointerSample {
	parts := []PointerSample{}
	for {
		part := PointerSample{
			DX:      int(saturate8(s.DX)),
			DY:      int(saturate8(s.DY)),
			Scroll:  int(saturate8(s.Scroll)),
			Buttons: s.Buttons,
		}
		parts = append(parts, part)
		s.DX -= part.DX
		s.DY -= part.DY
		s.Scroll -= part.Scroll
		if s.DX == 0 && s.DY == 0 && s.Scroll == 0 {
			return parts
		}
	}
}

func (q *QueuePointer) pop() (PointerSample, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return PointerSample{}, false
	}
	s := q.queue[0]
	q.queue = q.queue[1:]
	q.held = s.Buttons
	return s, true
}

// ReadReport encodes the oldest queued sample into p as a boot report.
func (q *QueuePointer) ReadReport(p []byte, timeout time.Duration) (int, error) {
	if s, ok := q.pop(); ok {
		return copy(p, EncodeReport(s)), nil
	}
	if timeout <= 0 {
		return 0, ErrTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-q.notify:
			if s, ok := q.pop(); ok {
				return copy(p, EncodeReport(s)), nil
			}
		case <-timer.C:
			return 0, ErrTimeout
		}
	}
}
