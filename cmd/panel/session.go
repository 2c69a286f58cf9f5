package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/odvcencio/panel/pkg/config"
	perrors "github.com/odvcencio/panel/pkg/errors"
	"github.com/odvcencio/panel/pkg/input"
	"github.com/odvcencio/panel/pkg/logging"
	"github.com/odvcencio/panel/pkg/telemetry"
	"github.com/odvcencio/panel/pkg/ui/backend"
	"github.com/odvcencio/panel/pkg/ui/backend/sim"
	tcellbackend "github.com/odvcencio/panel/pkg/ui/backend/tcell"
	"github.com/odvcencio/panel/pkg/ui/compositor"
	"github.com/odvcencio/panel/pkg/ui/geom"
	"github.com/odvcencio/panel/pkg/ui/wm"
)

// session owns everything one desktop needs: the renderer, the input
// sources, the desktop and its runner, and the observability plumbing.
type session struct {
	cfg     *config.Config
	log     *logging.Logger
	hub     *telemetry.Hub
	metrics *telemetry.Metrics
	desktop *wm.Desktop
	runner  *wm.Runner

	bridge  *tcellbackend.Bridge
	sim     *sim.Backend
	closers []func()
}

// settingsFrom extracts the live-tunable dispatch settings.
func settingsFrom(cfg *config.Config) wm.Settings {
	return wm.Settings{
		TickRate:       cfg.UI.TickRate,
		PointerSpeed:   cfg.Input.PointerSpeed,
		TipOffset:      cfg.Input.CursorTipOffset,
		PressDelay:     cfg.UI.PressDelay,
		PointerTimeout: cfg.Input.PointerTimeout,
	}
}

func newSession(cfg *config.Config, log *logging.Logger) (*session, error) {
	s := &session{cfg: cfg, log: log, hub: telemetry.NewHub()}
	if cfg.Metrics.Enabled {
		s.metrics = telemetry.NewMetrics()
	}

	width, height := cfg.Display.Width, cfg.Display.Height
	start := geom.Point{X: width / 2, Y: height / 2}
	metrics := backend.Metrics{CellWidth: cfg.Backend.CellWidth, CellHeight: cfg.Backend.CellHeight}

	var (
		renderer compositor.Renderer
		keys     input.KeySource
		pointer  input.PointerDevice
	)
	switch cfg.Backend.Kind {
	case config.BackendTcell:
		tb, err := tcellbackend.New(metrics, width, height)
		if err != nil {
			return nil, perrors.Wrap(err, perrors.ErrCodeBackendInit, "create terminal screen")
		}
		if err := tb.Init(); err != nil {
			return nil, perrors.Wrap(err, perrors.ErrCodeBackendInit, "initialize terminal screen").
				WithRemediation("run panel from an interactive terminal, or use --backend headless")
		}
		s.closers = append(s.closers, tb.Fini)
		s.bridge = tcellbackend.NewBridge(tb, start)
		renderer, keys, pointer = tb, s.bridge.Keys(), s.bridge.Pointer()

	case config.BackendSim:
		s.sim = sim.New(width, height)
		s.closers = append(s.closers, s.sim.Fini)
		s.bridge = tcellbackend.NewBridge(s.sim.Backend, start)
		renderer, keys, pointer = s.sim, s.bridge.Keys(), s.bridge.Pointer()

	case config.BackendHeadless:
		var err error
		if keys, err = s.openKeys(cfg.Input.KeyDevice); err != nil {
			s.close()
			return nil, err
		}
		if cfg.Input.PointerDevice != "" {
			hid, err := input.OpenHIDPointer(cfg.Input.PointerDevice)
			if err != nil {
				s.close()
				return nil, err
			}
			s.closers = append(s.closers, func() { _ = hid.Close() })
			pointer = hid
		}

	default:
		return nil, perrors.Newf(perrors.ErrCodeBackendInit, "unknown backend %q", cfg.Backend.Kind)
	}

	pipeline := input.NewPipeline(keys, pointer, input.Options{
		RingCapacity:   cfg.Input.RingCapacity,
		ScratchSize:    cfg.Input.ScratchSize,
		PointerTimeout: cfg.Input.PointerTimeout,
		Logger:         log,
	})
	comp := compositor.New(renderer, width, height)
	s.desktop = wm.NewDesktop(comp, pipeline, wm.Options{
		PointerSpeed: cfg.Input.PointerSpeed,
		TipOffset:    cfg.Input.CursorTipOffset,
		PressDelay:   cfg.UI.PressDelay,
		Logger:       log,
		Events:       s.hub,
		Metrics:      s.metrics,
	})
	s.runner = wm.NewRunner(s.desktop, settingsFrom(cfg))

	_ = log.Info(logging.CategorySession, "session_started", "session started", map[string]any{
		"backend": cfg.Backend.Kind,
		"width":   width,
		"height":  height,
	})
	return s, nil
}

// openKeys binds the headless key source. A terminal is switched to raw
// mode so bytes arrive unbuffered; anything that cannot report its input
// queue is pumped through a QueueKeys instead.
func (s *session) openKeys(path string) (input.KeySource, error) {
	f := os.Stdin
	if path != "" {
		dev, err := os.Open(path)
		if err != nil {
			return nil, perrors.Wrap(err, perrors.ErrCodeDeviceOpen, "open key device").
				WithContext("path", path)
		}
		s.closers = append(s.closers, func() { _ = dev.Close() })
		f = dev
	}

	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, perrors.Wrap(err, perrors.ErrCodeDeviceOpen, "switch key device to raw mode")
		}
		s.closers = append(s.closers, func() { _ = term.Restore(fd, state) })
	}

	if keys, err := input.NewFDKeys(fd); err == nil {
		return keys, nil
	}
	q := input.NewQueueKeys(input.DefaultRingCapacity)
	go func() {
		if err := input.PumpKeys(f, q); err != nil {
			_ = s.log.Warn(logging.CategoryDevice, "key_pump_stopped", "key source failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()
	return q, nil
}

// run drives the session until ctx is cancelled or a component fails.
// ticks > 0 stops after that many dispatch ticks.
func (s *session) run(ctx context.Context, watchPath string, ticks int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if s.bridge != nil {
		s.bridge.OnInterrupt = cancel
		g.Go(func() error {
			defer cancel()
			return s.bridge.Run(gctx)
		})
	}

	g.Go(func() error {
		if ticks <= 0 {
			return s.runner.Run(gctx)
		}
		defer cancel()
		for i := 0; i < ticks && gctx.Err() == nil; i++ {
			s.runner.Step()
		}
		return nil
	})

	if s.metrics != nil {
		addr := s.cfg.Metrics.Listen
		g.Go(func() error {
			_ = s.log.Info(logging.CategorySession, "metrics_listening", "serving metrics", map[string]any{"addr": addr})
			return s.metrics.Serve(gctx, addr)
		})
	}

	if watchPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, watchPath, s.reload, config.WithErrorHandler(func(err error) {
				_ = s.log.Warn(logging.CategoryConfig, "reload_failed", "config reload failed", map[string]any{
					"path":  watchPath,
					"error": err.Error(),
				})
			}))
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reload applies a changed configuration. Only dispatch settings and the
// log level change at runtime; display and backend changes need a restart.
func (s *session) reload(cfg *config.Config) {
	s.runner.Apply(settingsFrom(cfg))
	if level, ok := logging.ParseLevel(cfg.Logging.Level); ok {
		s.log.SetMinLevel(level)
	}
	_ = s.log.Info(logging.CategoryConfig, "config_reloaded", "configuration reloaded", map[string]any{
		"tick_rate":     cfg.UI.TickRate,
		"pointer_speed": cfg.Input.PointerSpeed,
	})
	s.hub.Publish(telemetry.Event{
		Type: telemetry.EventConfigReloaded,
		Data: map[string]any{"tick_rate": cfg.UI.TickRate, "pointer_speed": cfg.Input.PointerSpeed},
	})
}

// close releases devices in reverse order of acquisition.
func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
	s.hub.Close()
}
