package input

import (
	"io"
	"sync/atomic"
)

// KeySource is a byte-oriented keystroke stream with a non-blocking
// availability check.
type KeySource interface {
	// Buffered reports how many bytes can be read without blocking.
	Buffered() (int, error)
	Read(p []byte) (int, error)
}

// QueueKeys is a KeySource fed by other goroutines. Producers call Post;
// the dispatch loop is the single consumer.
type QueueKeys struct {
	ch      chan []byte
	pending []byte
	dropped atomic.Uint64
}

// NewQueueKeys creates a queue holding up to depth posted chunks.
func NewQueueKeys(depth int) *QueueKeys {
	if depth < 1 {
		depth = 1
	}
	return &QueueKeys{ch: make(chan []byte, depth)}
}

// Post enqueues a copy of p without blocking. It returns false and counts
// the chunk as dropped when the queue is full.
func (q *QueueKeys) Post(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	chunk := append([]byte(nil), p...)
	select {
	case q.ch <- chunk:
		return true
	default:
		q.dropped.Add(uint64(len(chunk)))
		return false
	}
}

// Dropped is the number of bytes rejected by Post.
func (q *QueueKeys) Dropped() uint64 {
	return q.dropped.Load()
}

func (q *QueueKeys) fill() {
	for {
		select {
		case chunk := <-q.ch:
			q.pending = append(q.pending, chunk...)
		default:
			return
		}
	}
}

func (q *QueueKeys) Buffered() (int, error) {
	q.fill()
	return len(q.pending), nil
}

func (q *QueueKeys) Read(p []byte) (int, error) {
	q.fill()
	n := copy(p, q.pending)
	q.pending = q.pending[n:]
	if len(q.pending) == 0 {
		q.pending = nil
	}
	return n, nil
}

// PumpKeys copies r into q until r fails. It blocks in r.Read, so callers
// run it on its own goroutine. io.EOF ends the pump without error.
func PumpKeys(r io.Reader, q *QueueKeys) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			q.Post(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
