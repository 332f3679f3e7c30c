// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	UI     UIConfig     `toml:"ui"`
	Editor EditorConfig `toml:"editor"`
	Log    LogConfig    `toml:"log"`
}

// UIConfig holds user-interface settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma style the span palette is derived from.
	// Defaults to "vulcan" if unset.
	SyntaxTheme string `toml:"syntax_theme"`
}

// SyntaxThemeOrDefault returns the configured syntax theme or "vulcan".
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return "vulcan"
	}
	return u.SyntaxTheme
}

// EditorConfig holds editing-surface settings.
type EditorConfig struct {
	// DebounceMs is how long after the last keystroke a validation pass is
	// dispatched. Defaults to 150.
	DebounceMs int `toml:"debounce_ms"`
	// TabWidth is the number of spaces a tab expands to. Defaults to 2.
	TabWidth int `toml:"tab_width"`
}

// Debounce returns the configured debounce interval or the 150ms default.
func (e EditorConfig) Debounce() time.Duration {
	if e.DebounceMs <= 0 {
		return 150 * time.Millisecond
	}
	return time.Duration(e.DebounceMs) * time.Millisecond
}

// TabWidthOrDefault returns the configured tab width or 2.
func (e EditorConfig) TabWidthOrDefault() int {
	if e.TabWidth <= 0 {
		return 2
	}
	return e.TabWidth
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zerolog level name ("debug", "info", ...). Defaults
	// to "info".
	Level string `toml:"level"`
	// File is the log destination. Defaults to jview.log under the user
	// cache dir. The TUI owns the terminal, so logs never go to stderr.
	File string `toml:"file"`
}

// LevelOrDefault returns the configured log level name or "info".
func (l LogConfig) LevelOrDefault() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

// FileOrDefault returns the configured log file path, or a path under the
// user cache dir, or "" when no cache dir is resolvable (logging disabled).
func (l LogConfig) FileOrDefault() string {
	if l.File != "" {
		return l.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jview", "jview.log")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jview", "config.toml")
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. A missing file is not an error — a viewer should
// start with defaults, not a setup ritual.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JVIEW_THEME"); v != "" {
		cfg.UI.SyntaxTheme = v
	}
	if v := os.Getenv("JVIEW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}
