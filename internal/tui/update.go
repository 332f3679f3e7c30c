package tui

import (
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/jview/internal/store"
	"github.com/xonecas/jview/internal/tui/picker"
)

// recentLimit caps the picker list.
const recentLimit = 20

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	// -- Editor callback events, pumped off the channel ----------------------
	case noticeMsg:
		m.notice, m.noticeErr = msg.text, msg.isErr
		m.noticeSeq++
		return m, tea.Batch(m.expireNotice(), m.waitForEvent())

	case yamlMsg:
		m.previewText = msg.text
		m.previewLines = strings.Split(msg.text, "\n")
		m.previewScroll = 0
		return m, m.waitForEvent()

	case applyMsg:
		return m.handleApply()

	case noticeExpireMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case pickerReadyMsg:
		if len(msg.entries) == 0 {
			return m.setNotice("no documents found", false)
		}
		m.picker = picker.New(msg.entries, m.theme)
		return m, nil

	case fileLoadedMsg:
		return m.handleFileLoaded(msg)
	}

	// Everything else belongs to the editor: its worker results and
	// debounce ticks arrive here as opaque messages.
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.relayout()
	m.search.SetWidth(m.width/2 - 2)
}

func (m *Model) relayout() {
	m.layout = generateLayout(m.width, m.height, m.preview)
	m.editor.SetSize(m.layout.editor.Dx(), m.layout.editor.Dy())
	m.clampPreviewScroll()
}

// ---------------------------------------------------------------------------
// Keyboard
// ---------------------------------------------------------------------------

func (m Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// The picker swallows all input while open.
	if m.picker != nil {
		return m.handlePickerKey(msg)
	}
	if m.mode == modeSearch {
		return m.handleSearchKey(msg)
	}

	if handler := m.keyPressHandlers()[msg.Keystroke()]; handler != nil {
		return handler(&m)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) keyPressHandlers() map[string]func(*Model) (tea.Model, tea.Cmd) {
	return map[string]func(*Model) (tea.Model, tea.Cmd){
		"ctrl+c": (*Model).handleQuit,
		"/":      (*Model).handleOpenSearch,
		"ctrl+f": (*Model).handleFormat,
		"ctrl+y": (*Model).handleTogglePreview,
		"ctrl+s": (*Model).handleSave,
		"ctrl+e": (*Model).handleJumpToError,
		"ctrl+o": (*Model).handleOpenPicker,
		"ctrl+n": (*Model).handleNextMatch,
		"ctrl+p": (*Model).handlePrevMatch,
		"esc":    (*Model).handleEsc,
	}
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.persistPosition()
	m.editor.Close()
	return *m, tea.Quit
}

func (m *Model) handleOpenSearch() (tea.Model, tea.Cmd) {
	m.mode = modeSearch
	m.search.SetValue(m.query)
	m.search.Focus()
	return *m, nil
}

func (m *Model) handleFormat() (tea.Model, tea.Cmd) {
	m.editor.Format()
	return *m, nil
}

func (m *Model) handleTogglePreview() (tea.Model, tea.Cmd) {
	m.preview = !m.preview
	m.relayout()
	if m.preview {
		m.editor.Stringify()
	}
	return *m, nil
}

func (m *Model) handleSave() (tea.Model, tea.Cmd) {
	// Apply validates synchronously; a valid document comes back as an
	// applyMsg through the event pump.
	m.editor.Apply()
	return *m, nil
}

func (m *Model) handleJumpToError() (tea.Model, tea.Cmd) {
	if !m.editor.ScrollToError() {
		return m.setNotice("no error to jump to", false)
	}
	return *m, nil
}

func (m *Model) handleOpenPicker() (tea.Model, tea.Cmd) {
	return *m, m.gatherDocuments()
}

func (m *Model) handleNextMatch() (tea.Model, tea.Cmd) {
	return m.cycleMatch(1)
}

func (m *Model) handlePrevMatch() (tea.Model, tea.Cmd) {
	return m.cycleMatch(-1)
}

func (m *Model) cycleMatch(dir int) (tea.Model, tea.Cmd) {
	n := len(m.matches)
	if n == 0 {
		return *m, nil
	}
	m.current = (m.current + dir + n) % n
	m.editor.SetSearchRanges(searchRanges(m.matches, len(m.query), m.current))
	return *m, nil
}

func (m *Model) handleEsc() (tea.Model, tea.Cmd) {
	switch {
	case m.matches != nil:
		m.matches = nil
		m.query = ""
		m.editor.ClearSearch()
	case m.preview:
		m.preview = false
		m.relayout()
	}
	return *m, nil
}

// ---------------------------------------------------------------------------
// Search prompt
// ---------------------------------------------------------------------------

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Keystroke() {
	case "esc":
		m.mode = modeEdit
		m.search.Blur()
		return m, nil
	case "enter":
		return m.commitSearch()
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) commitSearch() (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.search.Blur()

	m.query = m.search.Value()
	m.matches = findMatches(m.editor.Value(), m.query)
	if len(m.matches) == 0 {
		m.editor.ClearSearch()
		if m.query != "" {
			return m.setNotice("no matches", false)
		}
		return m, nil
	}
	m.current = nearestMatch(m.matches, m.editor.Cursor())
	m.editor.SetSearchRanges(searchRanges(m.matches, len(m.query), m.current))
	return m, nil
}

// ---------------------------------------------------------------------------
// Picker
// ---------------------------------------------------------------------------

func (m Model) handlePickerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch ev := m.picker.Handle(msg).(type) {
	case picker.Closed:
		m.picker = nil
		return m, nil
	case picker.Picked:
		m.picker = nil
		m.persistPosition()
		return m, m.loadFile(ev.Path)
	}
	return m, nil
}

func (m Model) handleFileLoaded(msg fileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Error().Err(msg.err).Str("path", msg.path).Msg("tui: open failed")
		return m.setNotice("open failed: "+msg.err.Error(), true)
	}

	m.filePath = msg.path
	m.matches = nil
	m.query = ""
	cmd := m.editor.SetValue(msg.text)
	if msg.lastLine > 0 {
		m.editor.ScrollToLine(msg.lastLine)
	}
	m.store.Touch(msg.path)
	if m.preview {
		m.editor.Stringify()
	}
	return m, cmd
}

// recentEntries adapts the store's recency list for the picker, skipping the
// document already open.
func recentEntries(st *store.Store, current string) []picker.Entry {
	var entries []picker.Entry
	for _, e := range st.Recent(recentLimit) {
		if e.Path == current {
			continue
		}
		entries = append(entries, picker.Entry{
			Path:   e.Path,
			Detail: e.Opened.Format("Jan 2 15:04"),
		})
	}
	return entries
}

// ---------------------------------------------------------------------------
// Apply
// ---------------------------------------------------------------------------

func (m Model) handleApply() (tea.Model, tea.Cmd) {
	rearm := m.waitForEvent()
	if m.readOnly {
		mdl, cmd := m.setNotice("read-only, not written", true)
		return mdl, tea.Batch(cmd, rearm)
	}
	if m.filePath == "" {
		mdl, cmd := m.setNotice("no backing file", true)
		return mdl, tea.Batch(cmd, rearm)
	}
	if err := os.WriteFile(m.filePath, []byte(m.editor.Value()), 0o644); err != nil {
		log.Error().Err(err).Str("path", m.filePath).Msg("tui: write failed")
		mdl, cmd := m.setNotice("write failed: "+err.Error(), true)
		return mdl, tea.Batch(cmd, rearm)
	}
	m.store.Touch(m.filePath)
	mdl, cmd := m.setNotice("wrote "+m.filePath, false)
	return mdl, tea.Batch(cmd, rearm)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (m *Model) setNotice(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.notice, m.noticeErr = text, isErr
	m.noticeSeq++
	return *m, m.expireNotice()
}

func (m *Model) persistPosition() {
	if m.filePath == "" {
		return
	}
	m.store.SetLastLine(m.filePath, m.editor.TopLine())
}

func (m *Model) clampPreviewScroll() {
	maxScroll := len(m.previewLines) - m.layout.preview.Dy()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.previewScroll > maxScroll {
		m.previewScroll = maxScroll
	}
	if m.previewScroll < 0 {
		m.previewScroll = 0
	}
}
