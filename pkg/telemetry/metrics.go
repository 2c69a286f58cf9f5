package telemetry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "panel"

// Metrics holds the shell's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ticks             prometheus.Counter
	tickDuration      prometheus.Histogram
	repaints          prometheus.Counter
	windowsOpen       prometheus.Gauge
	drags             prometheus.Counter
	keystrokesDropped prometheus.Counter
	pointerTimeouts   prometheus.Counter

	mu           sync.Mutex
	lastDropped  uint64
	lastTimeouts uint64
}

// NewMetrics registers the shell collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Dispatch loop iterations.",
		}),
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one dispatch tick.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		repaints: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repaints_total",
			Help:      "Frames presented to the display.",
		}),
		windowsOpen: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "windows_open",
			Help:      "Windows currently on the desktop.",
		}),
		drags: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_total",
			Help:      "Completed window drags.",
		}),
		keystrokesDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keystrokes_dropped_total",
			Help:      "Keystroke bytes evicted from the full ring.",
		}),
		pointerTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pointer_timeouts_total",
			Help:      "Pointer samples that produced no report.",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveTick records one dispatch tick.
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// AddRepaints records presented frames.
func (m *Metrics) AddRepaints(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.repaints.Add(float64(n))
}

// SetWindowsOpen records the number of open windows.
func (m *Metrics) SetWindowsOpen(n int) {
	if m == nil {
		return
	}
	m.windowsOpen.Set(float64(n))
}

// IncDrags records a completed drag.
func (m *Metrics) IncDrags() {
	if m == nil {
		return
	}
	m.drags.Inc()
}

// SyncInput folds the input pipeline's cumulative counters into the
// Prometheus counters.
func (m *Metrics) SyncInput(dropped, timeouts uint64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if dropped > m.lastDropped {
		m.keystrokesDropped.Add(float64(dropped - m.lastDropped))
	}
	if timeouts > m.lastTimeouts {
		m.pointerTimeouts.Add(float64(timeouts - m.lastTimeouts))
	}
	m.lastDropped, m.lastTimeouts = dropped, timeouts
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
