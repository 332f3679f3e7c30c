package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/jview/internal/config"
	"github.com/xonecas/jview/internal/store"
	"github.com/xonecas/jview/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file")
	theme := flag.String("theme", "", "syntax theme, overrides config")
	readOnly := flag.Bool("readonly", false, "open without editing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jview: %v\n", err)
		os.Exit(1)
	}
	if *theme != "" {
		cfg.UI.SyntaxTheme = *theme
	}

	closeLog := initLogging(cfg)
	defer closeLog()

	filePath, content, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jview: %v\n", err)
		os.Exit(1)
	}

	st := openStore()
	defer st.Close()

	lastLine := 0
	if filePath != "" {
		st.Touch(filePath)
		lastLine, _ = st.LastLine(filePath)
	}

	m := tui.New(tui.Options{
		FilePath: filePath,
		Content:  content,
		ReadOnly: *readOnly || filePath == "",
		LastLine: lastLine,
		Config:   cfg,
		Store:    st,
	})

	p := tea.NewProgram(m, tea.WithFilter(tui.MouseEventFilter))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jview: %v\n", err)
		os.Exit(1)
	}

	// Remember where the session left off.
	if fm, ok := final.(tui.Model); ok && fm.FilePath() != "" {
		st.SetLastLine(fm.FilePath(), fm.TopLine())
	}
}

// readInput loads the document from a path, or from stdin when none is
// given. Stdin sessions are read-only: there is nothing to write back to.
func readInput(path string) (string, string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "", string(data), nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", "", err
	}
	return abs, string(data), nil
}

// initLogging sends the global logger to the configured file. The terminal
// belongs to the TUI, so there is no stderr fallback — on failure logging is
// disabled.
func initLogging(cfg *config.Config) func() {
	level, err := zerolog.ParseLevel(cfg.Log.LevelOrDefault())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	path := cfg.Log.FileOrDefault()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Logger = zerolog.Nop()
		return func() {}
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { f.Close() }
}

// openStore opens the recent-documents database, or returns a nil store
// (every method no-ops) when the cache directory is unavailable.
func openStore() *store.Store {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil
	}
	dir = filepath.Join(dir, "jview")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	st, err := store.Open(filepath.Join(dir, "jview.db"))
	if err != nil {
		log.Warn().Err(err).Msg("main: recent-documents store unavailable")
		return nil
	}
	return st
}
