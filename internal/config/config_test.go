package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.UI.SyntaxThemeOrDefault(); got != "vulcan" {
		t.Errorf("theme = %q, want vulcan", got)
	}
	if got := cfg.Editor.Debounce(); got != 150*time.Millisecond {
		t.Errorf("debounce = %v, want 150ms", got)
	}
	if got := cfg.Editor.TabWidthOrDefault(); got != 2 {
		t.Errorf("tab width = %d, want 2", got)
	}
	if got := cfg.Log.LevelOrDefault(); got != "info" {
		t.Errorf("log level = %q, want info", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
syntax_theme = "monokai"

[editor]
debounce_ms = 300
tab_width = 4

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.SyntaxThemeOrDefault() != "monokai" {
		t.Errorf("theme = %q", cfg.UI.SyntaxTheme)
	}
	if cfg.Editor.Debounce() != 300*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Editor.Debounce())
	}
	if cfg.Editor.TabWidthOrDefault() != 4 {
		t.Errorf("tab width = %d", cfg.Editor.TabWidth)
	}
	if cfg.Log.LevelOrDefault() != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JVIEW_THEME", "dracula")
	t.Setenv("JVIEW_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.SyntaxThemeOrDefault() != "dracula" {
		t.Errorf("theme = %q, want dracula", cfg.UI.SyntaxTheme)
	}
	if cfg.Log.LevelOrDefault() != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
}
