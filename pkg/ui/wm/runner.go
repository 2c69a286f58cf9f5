package wm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/odvcencio/panel/pkg/logging"
	"github.com/odvcencio/panel/pkg/telemetry"
)

const (
	DefaultTickRate = 60
	postQueueDepth  = 64
)

// Settings are the runtime-adjustable dispatch parameters.
type Settings struct {
	TickRate       int
	PointerSpeed   int
	TipOffset      int
	PressDelay     time.Duration
	PointerTimeout time.Duration
}

// Runner drives a Desktop at a fixed tick rate. Settings changes and
// posted functions run on the dispatch goroutine between ticks, so they
// never race with Tick.
type Runner struct {
	desktop *Desktop
	limiter *rate.Limiter
	updates chan Settings
	posted  chan func()
	metrics *telemetry.Metrics
	log     *logging.Logger
}

// NewRunner creates a runner for d with initial settings s.
func NewRunner(d *Desktop, s Settings) *Runner {
	r := &Runner{
		desktop: d,
		limiter: rate.NewLimiter(tickLimit(s.TickRate), 1),
		updates: make(chan Settings, 1),
		posted:  make(chan func(), postQueueDepth),
		metrics: d.metrics,
		log:     d.log,
	}
	r.apply(s)
	return r
}

func tickLimit(perSecond int) rate.Limit {
	if perSecond <= 0 {
		return rate.Limit(DefaultTickRate)
	}
	return rate.Limit(perSecond)
}

// Apply queues new settings; only the most recent pending value is kept.
// Safe to call from any goroutine.
func (r *Runner) Apply(s Settings) {
	for {
		select {
		case r.updates <- s:
			return
		default:
		}
		select {
		case <-r.updates:
		default:
		}
	}
}

// Post queues fn to run on the dispatch goroutine before the next tick.
// It reports false if the queue is full. Safe to call from any goroutine.
func (r *Runner) Post(fn func()) bool {
	select {
	case r.posted <- fn:
		return true
	default:
		return false
	}
}

// Run ticks the desktop until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	_ = r.log.Info(logging.CategoryDispatch, "runner_started", "dispatch loop started", map[string]any{
		"tick_rate": float64(r.limiter.Limit()),
	})
	for {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		r.Step()
	}
}

// Step runs pending work and one tick.
func (r *Runner) Step() {
	select {
	case s := <-r.updates:
		r.apply(s)
	default:
	}
	for drained := false; !drained; {
		select {
		case fn := <-r.posted:
			fn()
		default:
			drained = true
		}
	}

	start := time.Now()
	r.desktop.Tick()
	r.metrics.ObserveTick(time.Since(start))
	in := r.desktop.input
	r.metrics.SyncInput(in.Ring().Dropped(), in.PointerTimeouts())
}

func (r *Runner) apply(s Settings) {
	r.limiter.SetLimit(tickLimit(s.TickRate))
	r.desktop.SetPointerSpeed(s.PointerSpeed)
	r.desktop.SetTipOffset(s.TipOffset)
	if s.PressDelay > 0 {
		r.desktop.SetPressDelay(s.PressDelay)
	}
	if s.PointerTimeout > 0 {
		r.desktop.input.SetPointerTimeout(s.PointerTimeout)
	}
	_ = r.log.Debug(logging.CategoryConfig, "settings_applied", "dispatch settings applied", map[string]any{
		"tick_rate":     s.TickRate,
		"pointer_speed": s.PointerSpeed,
		"tip_offset":    s.TipOffset,
	})
}
