package tui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/jview/internal/filesearch"
	"github.com/xonecas/jview/internal/tui/picker"
)

// discoverLimit caps how many working-tree documents the picker offers.
const discoverLimit = 200

// ---------------------------------------------------------------------------
// ELM messages
// ---------------------------------------------------------------------------

// noticeMsg sets the transient status-bar notice.
type noticeMsg struct {
	text  string
	isErr bool
}

// noticeExpireMsg clears the notice, unless a newer one replaced it.
type noticeExpireMsg struct{ seq int }

// yamlMsg carries a finished YAML render for the preview pane.
type yamlMsg struct{ text string }

// applyMsg signals a validated document ready to be written out.
type applyMsg struct{}

// pickerReadyMsg carries the gathered document list for the picker.
type pickerReadyMsg struct{ entries []picker.Entry }

// fileLoadedMsg delivers a document picked from the recent list.
type fileLoadedMsg struct {
	path     string
	text     string
	lastLine int
	err      error
}

// ---------------------------------------------------------------------------
// ELM commands
// ---------------------------------------------------------------------------

// waitForEvent blocks on the editor callback channel. Re-armed after every
// delivery.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg { return <-ch }
}

// expireNotice schedules the notice to clear.
func (m Model) expireNotice() tea.Cmd {
	seq := m.noticeSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return noticeExpireMsg{seq: seq}
	})
}

// gatherDocuments lists openable documents: the recent set first, then JSON
// files discovered under the working directory.
func (m Model) gatherDocuments() tea.Cmd {
	st := m.store
	current := m.filePath
	return func() tea.Msg {
		entries := recentEntries(st, current)
		seen := make(map[string]bool, len(entries)+1)
		seen[current] = true
		for _, e := range entries {
			seen[e.Path] = true
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		cwd, err := os.Getwd()
		if err != nil {
			return pickerReadyMsg{entries: entries}
		}
		docs, err := filesearch.Discover(ctx, cwd, discoverLimit)
		if err != nil {
			log.Debug().Err(err).Msg("tui: document discovery cut short")
		}
		for _, rel := range docs {
			abs := filepath.Join(cwd, rel)
			if seen[abs] {
				continue
			}
			entries = append(entries, picker.Entry{Path: abs})
		}
		return pickerReadyMsg{entries: entries}
	}
}

// loadFile reads a document off the update loop.
func (m Model) loadFile(path string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileLoadedMsg{path: path, err: err}
		}
		line, _ := st.LastLine(path)
		return fileLoadedMsg{path: path, text: string(data), lastLine: line}
	}
}
