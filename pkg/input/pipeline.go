// Package input turns polled keystroke and pointer devices into per-tick
// events: a lossy keystroke ring and decoded relative pointer samples.
package input

import (
	"errors"
	"time"

	"github.com/odvcencio/panel/pkg/logging"
)

const (
	DefaultRingCapacity   = 256
	DefaultScratchSize    = 64
	DefaultPointerTimeout = time.Millisecond
)

// Options sizes a Pipeline. Zero values take the defaults.
type Options struct {
	RingCapacity   int
	ScratchSize    int
	PointerTimeout time.Duration
	Logger         *logging.Logger
}

// Pipeline is the input stage of the dispatch loop. It is owned by a single
// goroutine and is not safe for concurrent use.
type Pipeline struct {
	keys    KeySource
	pointer PointerDevice
	ring    *KeyRing
	scratch []byte
	report  [8]byte
	timeout time.Duration
	log     *logging.Logger

	lastErr  string
	timeouts uint64
}

// NewPipeline binds the key source and pointer device. Either may be nil,
// in which case that half of the pipeline never produces data.
func NewPipeline(keys KeySource, pointer PointerDevice, opts Options) *Pipeline {
	if opts.RingCapacity <= 0 {
		opts.RingCapacity = DefaultRingCapacity
	}
	if opts.ScratchSize <= 0 {
		opts.ScratchSize = DefaultScratchSize
	}
	if opts.PointerTimeout < 0 {
		opts.PointerTimeout = 0
	}
	return &Pipeline{
		keys:    keys,
		pointer: pointer,
		ring:    NewKeyRing(opts.RingCapacity),
		scratch: make([]byte, opts.ScratchSize),
		timeout: opts.PointerTimeout,
		log:     opts.Logger,
	}
}

// Ring exposes the keystroke ring for inspection.
func (p *Pipeline) Ring() *KeyRing { return p.ring }

// SetPointerTimeout changes the bounded wait used by SamplePointer.
func (p *Pipeline) SetPointerTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	p.timeout = d
}

// PointerTimeouts counts SamplePointer calls that found no data.
func (p *Pipeline) PointerTimeouts() uint64 { return p.timeouts }

// PollKeystrokes moves whatever the key source has ready, up to one scratch
// buffer, into the ring. It never blocks and returns the bytes moved.
func (p *Pipeline) PollKeystrokes() int {
	if p.keys == nil {
		return 0
	}
	avail, err := p.keys.Buffered()
	if err != nil {
		p.deviceError("key_poll_failed", err)
		return 0
	}
	if avail <= 0 {
		return 0
	}

	n, err := p.keys.Read(p.scratch[:min(avail, len(p.scratch))])
	if n > 0 {
		p.ring.PushAll(p.scratch[:n])
	}
	if err != nil {
		p.deviceError("key_read_failed", err)
	}
	return n
}

// DrainKeystrokes returns every buffered keystroke as one string and empties
// the ring. It returns "" when nothing is buffered.
func (p *Pipeline) DrainKeystrokes() string {
	return string(p.ring.Drain())
}

// SamplePointer reads one report, waiting at most the configured timeout.
// A timeout, a short report or a device error all yield ok == false.
func (p *Pipeline) SamplePointer() (PointerSample, bool) {
	if p.pointer == nil {
		return PointerSample{}, false
	}
	n, err := p.pointer.ReadReport(p.report[:], p.timeout)
	if errors.Is(err, ErrTimeout) {
		p.timeouts++
		return PointerSample{}, false
	}
	if err != nil {
		p.deviceError("pointer_read_failed", err)
		return PointerSample{}, false
	}
	return DecodeReport(p.report[:n])
}

// deviceError logs a device failure once per distinct message so a
// persistently failing device does not flood the log every tick.
func (p *Pipeline) deviceError(eventType string, err error) {
	msg := err.Error()
	if msg == p.lastErr {
		return
	}
	p.lastErr = msg
	p.log.Warn(logging.CategoryDevice, eventType, msg, nil)
}
