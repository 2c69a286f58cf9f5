package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/odvcencio/panel/pkg/logging"
)

func logsCmd(opts *rootOptions) *cobra.Command {
	var (
		count   int
		session string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent events from a session log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			path, err := sessionLog(cfg.LogDir(), session)
			if err != nil {
				return err
			}
			events, err := logging.ReadRecentEvents(path, count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, ev := range events {
				fmt.Fprintf(out, "%s %-5s %-10s %s %s\n",
					ev.Timestamp.Format(time.TimeOnly), strings.ToUpper(string(ev.Level)), ev.Category, ev.EventType, ev.Message)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of events to show")
	cmd.Flags().StringVar(&session, "session", "", "session ID (default: most recent)")
	return cmd
}

// sessionLog resolves a session's JSONL file. Session IDs are ULIDs, so the
// lexically greatest file is the newest.
func sessionLog(baseDir, session string) (string, error) {
	dir := filepath.Join(baseDir, "sessions")
	if session != "" {
		return filepath.Join(dir, session+".jsonl"), nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("no session logs in %s: %w", baseDir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no session logs in %s", baseDir)
	}
	slices.Sort(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}
