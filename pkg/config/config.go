package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	perrors "github.com/odvcencio/panel/pkg/errors"
)

// Config is the complete panel configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Input   InputConfig   `yaml:"input"`
	UI      UIConfig      `yaml:"ui"`
	Backend BackendConfig `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// DisplayConfig is the logical pixel size of the desktop.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// InputConfig tunes the keystroke ring and pointer sampling.
type InputConfig struct {
	RingCapacity   int           `yaml:"ring_capacity"`
	ScratchSize    int           `yaml:"scratch_size"`
	PointerSpeed   int           `yaml:"pointer_speed"`
	PointerTimeout time.Duration `yaml:"pointer_timeout"`
	// KeyDevice and PointerDevice select device files for the headless
	// backend. Empty means stdin and no pointer.
	KeyDevice       string `yaml:"key_device"`
	PointerDevice   string `yaml:"pointer_device"`
	CursorTipOffset int    `yaml:"cursor_tip_offset"`
}

// UIConfig tunes the dispatch loop.
type UIConfig struct {
	PressDelay time.Duration `yaml:"press_delay"`
	TickRate   int           `yaml:"tick_rate"`
}

// BackendConfig selects the renderer.
type BackendConfig struct {
	Kind       string `yaml:"kind"`
	CellWidth  int    `yaml:"cell_width"`
	CellHeight int    `yaml:"cell_height"`
}

// LoggingConfig controls the session log.
type LoggingConfig struct {
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Backend kinds.
const (
	BackendTcell    = "tcell"
	BackendHeadless = "headless"
	BackendSim      = "sim"
)

var validBackends = []string{BackendTcell, BackendHeadless, BackendSim}
var validLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{Width: 320, Height: 240},
		Input: InputConfig{
			RingCapacity:   256,
			ScratchSize:    64,
			PointerSpeed:   1,
			PointerTimeout: time.Millisecond,
		},
		UI: UIConfig{
			PressDelay: 100 * time.Millisecond,
			TickRate:   60,
		},
		Backend: BackendConfig{Kind: BackendTcell, CellWidth: 6, CellHeight: 8},
		Logging: LoggingConfig{Dir: "~/.panel/logs", Level: "info"},
		Metrics: MetricsConfig{Listen: "127.0.0.1:9464"},
	}
}

// UserPath is the per-user config file.
func UserPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".panel", "config.yaml")
}

// ProjectPath is the config file in the working directory.
func ProjectPath() string {
	return filepath.Join(".", ".panel", "config.yaml")
}

// Load loads configuration from default locations with proper precedence:
// defaults, the user file, the project file, then environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if p := UserPath(); p != "" {
		if err := loadAndMerge(cfg, p); err != nil && !os.IsNotExist(err) {
			return nil, perrors.Wrap(err, perrors.ErrCodeConfigLoad, "loading user config").
				WithContext("path", p)
		}
	}
	if err := loadAndMerge(cfg, ProjectPath()); err != nil && !os.IsNotExist(err) {
		return nil, perrors.Wrap(err, perrors.ErrCodeConfigLoad, "loading project config").
			WithContext("path", ProjectPath())
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file on top of the
// defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadAndMerge(cfg, path); err != nil {
		return nil, perrors.Wrap(err, perrors.ErrCodeConfigLoad, "loading config").
			WithContext("path", path)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies PANEL_* environment variables. Unparseable
// numbers are ignored.
func applyEnvOverrides(cfg *Config) {
	if v, ok := envInt("PANEL_DISPLAY_WIDTH"); ok {
		cfg.Display.Width = v
	}
	if v, ok := envInt("PANEL_DISPLAY_HEIGHT"); ok {
		cfg.Display.Height = v
	}
	if v, ok := envInt("PANEL_POINTER_SPEED"); ok {
		cfg.Input.PointerSpeed = v
	}
	if v := os.Getenv("PANEL_BACKEND"); v != "" {
		cfg.Backend.Kind = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("PANEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("PANEL_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := os.Getenv("PANEL_METRICS_ADDR"); v != "" {
		cfg.Metrics.Listen = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("PANEL_KEY_DEVICE"); v != "" {
		cfg.Input.KeyDevice = v
	}
	if v := os.Getenv("PANEL_POINTER_DEVICE"); v != "" {
		cfg.Input.PointerDevice = v
	}
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return perrors.Newf(perrors.ErrCodeConfigInvalid, format, args...)
	}

	if c.Display.Width <= 20 || c.Display.Height <= 20 {
		return invalid("invalid display size %dx%d (both sides must exceed 20)", c.Display.Width, c.Display.Height)
	}
	if c.Input.RingCapacity < 1 {
		return invalid("invalid ring_capacity: %d (must be at least 1)", c.Input.RingCapacity)
	}
	if c.Input.ScratchSize < 1 {
		return invalid("invalid scratch_size: %d (must be at least 1)", c.Input.ScratchSize)
	}
	if c.Input.PointerSpeed < 1 {
		return invalid("invalid pointer_speed: %d (must be at least 1)", c.Input.PointerSpeed)
	}
	if c.Input.PointerTimeout < 0 {
		return invalid("invalid pointer_timeout: %s (must not be negative)", c.Input.PointerTimeout)
	}
	if c.UI.PressDelay < 0 {
		return invalid("invalid press_delay: %s (must not be negative)", c.UI.PressDelay)
	}
	if c.UI.TickRate < 1 || c.UI.TickRate > 1000 {
		return invalid("invalid tick_rate: %d (valid: 1-1000)", c.UI.TickRate)
	}
	if !contains(validBackends, c.Backend.Kind) {
		return invalid("invalid backend: %s (valid: %s)", c.Backend.Kind, strings.Join(validBackends, ", "))
	}
	if c.Backend.CellWidth < 1 || c.Backend.CellHeight < 1 {
		return invalid("invalid cell size %dx%d (both must be at least 1)", c.Backend.CellWidth, c.Backend.CellHeight)
	}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return invalid("invalid log level: %s (valid: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Listen) == "" {
		return invalid("metrics enabled without a listen address")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// LogDir returns the logging directory with ~ expanded.
func (c *Config) LogDir() string {
	return expandHomeDir(c.Logging.Dir)
}

// String renders the config as YAML for display.
func (c *Config) String() string {
	data, err := marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
