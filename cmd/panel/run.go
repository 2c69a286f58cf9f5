package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/odvcencio/panel/pkg/logging"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var ticks int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an empty desktop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd, opts, ticks, nil)
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	return cmd
}

// runDesktop loads configuration, builds a session, lets populate add
// windows and runs until interrupted. With the sim backend the final
// screen is printed to stdout.
func runDesktop(cmd *cobra.Command, opts *rootOptions, ticks int, populate func(context.Context, *session) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	s, err := newSession(cfg, log)
	if err != nil {
		_ = log.Error(logging.CategorySession, "session_failed", "could not start session", map[string]any{
			"error": err.Error(),
		})
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if populate != nil {
		if err := populate(ctx, s); err != nil {
			return err
		}
	}

	err = s.run(ctx, opts.watchPath(), ticks)
	_ = log.Info(logging.CategorySession, "session_ended", "session ended", map[string]any{
		"windows": len(s.desktop.Windows()),
	})
	if s.sim != nil {
		fmt.Fprint(cmd.OutOrStdout(), s.sim.Capture())
	}
	return err
}
