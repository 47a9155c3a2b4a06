package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// WindowConfig selects the window the daemon attaches to. ID wins over Title.
type WindowConfig struct {
	ID    uint64 `yaml:"id,omitempty"`
	Title string `yaml:"title,omitempty"`
}

// GeometryConfig is the startup rectangle. Each field is an expression over
// screen_width, screen_height, window_width and window_height. X may also be
// "center", which centers the window on the primary display.
type GeometryConfig struct {
	X      string `yaml:"x,omitempty"`
	Y      string `yaml:"y,omitempty"`
	Width  string `yaml:"width,omitempty"`
	Height string `yaml:"height,omitempty"`
	// Client makes Width and Height describe the client area.
	Client bool `yaml:"client,omitempty"`
}

// IsSet reports whether a startup geometry was configured.
func (g GeometryConfig) IsSet() bool {
	return strings.TrimSpace(g.Width) != "" || strings.TrimSpace(g.Height) != ""
}

// StartupConfig lists changes applied once after attaching.
type StartupConfig struct {
	Title                 string         `yaml:"title,omitempty"`
	Geometry              GeometryConfig `yaml:"geometry,omitempty"`
	DisableMaximizeButton bool           `yaml:"disable_maximize_button,omitempty"`
	DisableMinimizeButton bool           `yaml:"disable_minimize_button,omitempty"`
	DisableResize         bool           `yaml:"disable_resize,omitempty"`
	Maximize              bool           `yaml:"maximize,omitempty"`
	Fullscreen            bool           `yaml:"fullscreen,omitempty"`
	ClipCursor            bool           `yaml:"clip_cursor,omitempty"`
	HideCursor            bool           `yaml:"hide_cursor,omitempty"`
}

// HotkeyConfig binds global key sequences (xgbutil keybind syntax) to
// commands. Empty disables a binding.
type HotkeyConfig struct {
	ToggleFullscreen  string `yaml:"toggle_fullscreen,omitempty"`
	ToggleMaximize    string `yaml:"toggle_maximize,omitempty"`
	ClipCursor        string `yaml:"clip_cursor,omitempty"`
	RestoreCursorClip string `yaml:"restore_cursor_clip,omitempty"`
}

// IPCConfig configures the daemon socket.
type IPCConfig struct {
	// Socket overrides the default socket path.
	Socket string `yaml:"socket,omitempty"`
	// WatchBuffer is the number of events buffered per WATCH client.
	WatchBuffer int `yaml:"watch_buffer,omitempty"`
}

// LoggingConfig configures daemon logging.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// Format is text, json or logfmt.
	Format string `yaml:"format,omitempty"`
	// File is the log file path; empty logs to stderr.
	File string `yaml:"file,omitempty"`
}

// Config is the effective winstate configuration.
type Config struct {
	// Display is the X display to connect to; empty uses $DISPLAY.
	Display string        `yaml:"display,omitempty"`
	Window  WindowConfig  `yaml:"window"`
	Startup StartupConfig `yaml:"startup"`
	Hotkeys HotkeyConfig  `yaml:"hotkeys"`
	IPC     IPCConfig     `yaml:"ipc"`
	Logging LoggingConfig `yaml:"logging"`
}

const (
	DefaultWatchBuffer = 64

	configDirName  = "winstate"
	configFileName = "config.yaml"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json", "logfmt"}
)

// DefaultConfigPath returns $XDG_CONFIG_HOME/winstate/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to resolve config directory")
	}
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Hotkeys: HotkeyConfig{
			ToggleFullscreen: "Mod4-Shift-f",
			ToggleMaximize:   "Mod4-Shift-m",
		},
		IPC: IPCConfig{
			WatchBuffer: DefaultWatchBuffer,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Startup.Fullscreen && c.Startup.Maximize {
		return &ValidationError{Path: "startup.fullscreen", Err: fmt.Errorf("cannot be combined with startup.maximize")}
	}
	if err := validateGeometry(c.Startup.Geometry); err != nil {
		return err
	}
	if c.IPC.WatchBuffer < 1 {
		return &ValidationError{Path: "ipc.watch_buffer", Err: fmt.Errorf("must be >= 1")}
	}
	if !contains(validLogLevels, c.Logging.Level) {
		return &ValidationError{
			Path: "logging.level",
			Err:  fmt.Errorf("invalid value %q (valid: %s)", c.Logging.Level, strings.Join(validLogLevels, ", ")),
		}
	}
	if !contains(validLogFormats, c.Logging.Format) {
		return &ValidationError{
			Path: "logging.format",
			Err:  fmt.Errorf("invalid value %q (valid: %s)", c.Logging.Format, strings.Join(validLogFormats, ", ")),
		}
	}
	return nil
}

func validateGeometry(g GeometryConfig) error {
	if !g.IsSet() {
		return nil
	}
	if strings.TrimSpace(g.Width) == "" || strings.TrimSpace(g.Height) == "" {
		return &ValidationError{Path: "startup.geometry", Err: fmt.Errorf("width and height must both be set")}
	}
	fields := []struct {
		path string
		expr string
	}{
		{"startup.geometry.x", g.X},
		{"startup.geometry.y", g.Y},
		{"startup.geometry.width", g.Width},
		{"startup.geometry.height", g.Height},
	}
	for _, f := range fields {
		if f.path == "startup.geometry.x" && isCenter(f.expr) {
			continue
		}
		if strings.TrimSpace(f.expr) == "" {
			continue
		}
		if _, err := compile(f.expr); err != nil {
			return &ValidationError{Path: f.path, Err: err}
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
