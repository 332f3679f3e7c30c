package editor

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/jview/internal/scan"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return m.handleResult(msg.res)

	case debounceMsg:
		// Stale tick: a newer edit restarted the timer. The state stays
		// whatever that newer edit set it to.
		if msg.version != m.version || m.state != StateDirty {
			return m, nil
		}
		m.dispatchScan()
		return m, nil

	case tea.KeyPressMsg:
		if !m.focus {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		if m.focus && msg.Button == tea.MouseLeft {
			m.cursor = m.screenToOffset(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.scroll -= 3
			m.clampScroll()
		case tea.MouseWheelDown:
			m.scroll += 3
			m.clampScroll()
		}
		return m, nil
	}
	return m, nil
}

// handleResult applies or discards a worker response. The version check is
// the single arbiter of staleness: anything not matching the current
// version is dropped whole, silently — an out-of-order completion is not an
// error, just history.
func (m Model) handleResult(res scan.Result) (Model, tea.Cmd) {
	rearm := m.waitForResult()

	if res.Version != m.version {
		log.Debug().
			Uint64("result", res.Version).
			Uint64("current", m.version).
			Str("action", string(res.Action)).
			Msg("editor: dropped stale result")
		return m, rearm
	}

	switch res.Action {
	case scan.ActionFormat:
		if res.Err != nil {
			m.reportResult(false, "format failed: "+res.Err.Msg)
			return m, rearm
		}
		m.doc = res.Text
		if m.cursor > len(m.doc) {
			m.cursor = len(m.doc)
		}
		m.reportResult(true, "formatted")
		// Same pipeline as an edit, minus the debounce: the new content
		// is already at rest.
		m.version++
		m.dispatchScan()

	case scan.ActionStringify:
		if res.Err != nil {
			m.reportResult(false, "yaml failed: "+res.Err.Msg)
			return m, rearm
		}
		if m.StringifyFunc != nil {
			m.StringifyFunc(res.Text)
		}

	default: // scan.ActionScan
		m.adopt(res)
	}
	return m, rearm
}

func (m Model) handleKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch msg.Keystroke() {
	// Navigation.
	case "up":
		m.moveCursorLine(-1)
	case "down":
		m.moveCursorLine(1)
	case "left":
		if m.cursor > 0 {
			_, size := utf8.DecodeLastRuneInString(m.doc[:m.cursor])
			m.cursor -= size
		}
	case "right":
		if m.cursor < len(m.doc) {
			_, size := utf8.DecodeRuneInString(m.doc[m.cursor:])
			m.cursor += size
		}
	case "home", "ctrl+a":
		line := m.index.LineFor(m.cursor)
		m.cursor = m.clampToDoc(m.index.Start(line))
	case "end", "ctrl+e":
		line := m.index.LineFor(m.cursor)
		m.cursor = m.clampToDoc(m.index.End(line))
	case "pgup":
		m.scroll -= m.height
		m.clampScroll()
		m.moveCursorLine(-m.height)
	case "pgdown":
		m.scroll += m.height
		m.clampScroll()
		m.moveCursorLine(m.height)
	case "ctrl+home":
		m.cursor = 0
		m.scroll = 0
	case "ctrl+end":
		m.cursor = len(m.doc)

	// Editing.
	case "backspace", "ctrl+h":
		if m.ReadOnly || m.cursor == 0 {
			break
		}
		_, size := utf8.DecodeLastRuneInString(m.doc[:m.cursor])
		return m.splice(m.cursor-size, m.cursor, "")
	case "delete", "ctrl+d":
		if m.ReadOnly || m.cursor >= len(m.doc) {
			break
		}
		_, size := utf8.DecodeRuneInString(m.doc[m.cursor:])
		return m.splice(m.cursor, m.cursor+size, "")
	case "enter":
		if m.ReadOnly {
			break
		}
		return m.splice(m.cursor, m.cursor, "\n")
	case "tab":
		if m.ReadOnly {
			break
		}
		return m.splice(m.cursor, m.cursor, strings.Repeat(" ", m.tabWidth()))

	default:
		if !m.ReadOnly && msg.Text != "" {
			return m.splice(m.cursor, m.cursor, msg.Text)
		}
		return m, nil
	}

	m.ensureCursorVisible()
	return m, nil
}

// splice replaces doc[from:to] with text, moves the cursor past the
// insertion, and enters the Dirty pipeline. The visible window keeps
// rendering off the previous index until the next scan is adopted, so the
// surface never blocks on a keystroke.
func (m Model) splice(from, to int, text string) (Model, tea.Cmd) {
	m.doc = m.doc[:from] + text + m.doc[to:]
	m.cursor = from + len(text)
	cmd := m.markDirty()
	m.ensureCursorVisible()
	return m, cmd
}

// moveCursorLine moves the cursor delta lines, keeping the column where
// possible. Line geometry comes from the adopted index, which may lag the
// buffer while Dirty; the clamp keeps the move safe.
func (m *Model) moveCursorLine(delta int) {
	lines := m.index.Lines()
	line := m.index.LineFor(m.cursor)
	col := m.cursor - m.index.Start(line)

	target := line + delta
	if target < 0 {
		target = 0
	}
	if target > lines-1 {
		target = lines - 1
	}

	start := m.index.Start(target)
	end := m.index.End(target)
	if start+col > end {
		col = end - start
	}
	m.cursor = m.clampToDoc(start + col)
	m.ensureCursorVisible()
}

func (m Model) clampToDoc(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(m.doc) {
		return len(m.doc)
	}
	return off
}

// screenToOffset converts component-relative x,y to a byte offset.
func (m Model) screenToOffset(x, y int) int {
	line := m.scroll + y
	if line < 0 {
		line = 0
	}
	if last := m.index.Lines() - 1; line > last {
		line = last
	}
	col := x - m.gutterW()
	if col < 0 {
		col = 0
	}
	start := m.index.Start(line)
	end := m.index.End(line)
	if start+col > end {
		col = end - start
	}
	return m.clampToDoc(start + col)
}

func (m Model) tabWidth() int {
	if m.TabWidth <= 0 {
		return 2
	}
	return m.TabWidth
}
