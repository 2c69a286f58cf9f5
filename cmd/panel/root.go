package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/panel/pkg/config"
	"github.com/odvcencio/panel/pkg/logging"
)

type rootOptions struct {
	configPath string
	backend    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "panel",
		Short: "A small windowing shell",
		Long: `panel runs a desktop of draggable windows with text boxes, lists and
tables, drawn on a terminal or driven directly from key and pointer devices.`,
		SilenceUsage: true,
	}
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`{{printf "panel %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: ~/.panel/config.yaml then ./.panel/config.yaml)")
	flags.StringVar(&opts.backend, "backend", "", "renderer: tcell, headless or sim")
	flags.StringVar(&opts.logLevel, "log-level", "", "minimum log level: debug, info, warn or error")

	rootCmd.AddCommand(runCmd(opts))
	rootCmd.AddCommand(demoCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	rootCmd.AddCommand(logsCmd(opts))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

// loadConfig loads the configuration and applies command-line overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.backend != "" {
		cfg.Backend.Kind = strings.ToLower(strings.TrimSpace(o.backend))
	}
	if o.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(o.logLevel))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchPath is the file hot reload follows: the explicit --config file, or
// the project file when one exists.
func (o *rootOptions) watchPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if _, err := os.Stat(config.ProjectPath()); err == nil {
		return config.ProjectPath()
	}
	return ""
}

// newLogger opens the session log. Console mirroring goes to stderr, which
// the tcell backend owns, so it is only enabled on request.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	log, err := logging.NewLogger(cfg.LogDir(), logging.NewSessionID())
	if err != nil {
		return nil, err
	}
	if level, ok := logging.ParseLevel(cfg.Logging.Level); ok {
		log.SetMinLevel(level)
	}
	if cfg.Logging.Console {
		log.SetConsole(os.Stderr)
	}
	return log, nil
}
