// Package editor is the virtualized JSON editing surface. It owns the
// document buffer and its version counter, debounces input, dispatches
// snapshots to the background scan worker, discards stale responses, and
// renders only the visible window of the document — display cost is bounded
// by the viewport, never by the document.
package editor

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/jview/internal/highlight"
	"github.com/xonecas/jview/internal/jsontext"
	"github.com/xonecas/jview/internal/scan"
	"github.com/xonecas/jview/internal/textindex"
	"github.com/xonecas/jview/internal/viewport"
)

// State tracks where the document sits relative to its last validation.
type State int

const (
	// StateClean means the adopted line index and validation result match
	// the current document version.
	StateClean State = iota
	// StateDirty means the document was edited and the debounce timer is
	// pending.
	StateDirty
	// StateValidating means a snapshot is with the worker.
	StateValidating
)

func (s State) String() string {
	switch s {
	case StateDirty:
		return "dirty"
	case StateValidating:
		return "validating"
	default:
		return "clean"
	}
}

// SearchRange is an externally computed match, in absolute byte offsets.
type SearchRange struct {
	Start, End int
	IsCurrent  bool
}

// Model is the editing surface component.
type Model struct {
	// Configuration, set before first Update.
	ShowLineNumbers bool
	ReadOnly        bool
	Theme           highlight.Theme
	Debounce        time.Duration
	TabWidth        int

	// Host callbacks. All optional.
	ApplyFunc        func(value any)               // parsed value on successful apply
	FormatResultFunc func(success bool, msg string) // outcome of format/apply
	StringifyFunc    func(yaml string)             // YAML render result

	doc     string
	version uint64
	state   State

	// Derived state for the adopted version. While Dirty/Validating the
	// index is stale relative to doc; rendering clamps and resyncs line
	// ends so the surface never freezes or panics.
	index     textindex.Index
	syntaxErr *jsontext.SyntaxError

	worker *scan.Worker

	width, height int
	scroll        int // first visible line
	cursor        int // absolute byte offset into doc
	focus         bool

	searches []SearchRange
}

// New creates the surface with initial content. The mount pays one
// synchronous index pass so the first frame can paint; validation and every
// later reindex go through the worker.
func New(initial string) Model {
	m := Model{
		Debounce: 150 * time.Millisecond,
		TabWidth: 2,
		Theme:    highlight.NewTheme(""),
		doc:      initial,
		version:  1,
		state:    StateValidating,
		index:    textindex.Scan(initial),
		worker:   scan.NewWorker(),
	}
	m.worker.Submit(scan.Request{Text: initial, Version: 1, Action: scan.ActionScan})
	return m
}

// Init arms the listener for worker results.
func (m Model) Init() tea.Cmd { return m.waitForResult() }

// Close shuts down the background worker. After Close the surface degrades
// to an unhighlighted, unvalidated buffer.
func (m *Model) Close() { m.worker.Close() }

// ---------------------------------------------------------------------------
// Public surface for the host
// ---------------------------------------------------------------------------

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	m.clampScroll()
}

func (m *Model) Focus()        { m.focus = true }
func (m *Model) Blur()         { m.focus = false }
func (m Model) Focused() bool  { return m.focus }
func (m Model) Value() string  { return m.doc }
func (m Model) Version() uint64 { return m.version }
func (m Model) State() State   { return m.state }

// Err returns the validation error for the adopted version, nil when valid
// or not yet validated.
func (m Model) Err() *jsontext.SyntaxError {
	if m.state != StateClean {
		return nil
	}
	return m.syntaxErr
}

// LineCount reports lines in the adopted index.
func (m Model) LineCount() int { return m.index.Lines() }

// TopLine is the first visible line, for the host to persist.
func (m Model) TopLine() int { return m.scroll }

// Cursor is the absolute byte offset of the cursor.
func (m Model) Cursor() int { return m.cursor }

// ErrLine returns the 1-based line of the current validation error, 0 when
// there is none or it has no usable offset.
func (m Model) ErrLine() int {
	serr := m.Err()
	if serr == nil || serr.Offset < 0 {
		return 0
	}
	return m.index.LineFor(serr.Offset) + 1
}

// CursorPosition returns the 1-based line and column of the cursor,
// best-effort while the index is stale.
func (m Model) CursorPosition() (line, col int) {
	l := m.index.LineFor(m.cursor)
	return l + 1, m.cursor - m.index.Start(l) + 1
}

// SetValue replaces the document programmatically and restarts the validate
// pipeline, same as an edit.
func (m *Model) SetValue(text string) tea.Cmd {
	m.doc = text
	m.cursor = 0
	m.scroll = 0
	m.searches = nil
	return m.markDirty()
}

// ScrollToLine centers the given line in the window.
func (m *Model) ScrollToLine(line int) {
	m.scroll = viewport.CenterOn(line, m.height, 1, m.index.Lines())
	m.clampScroll()
}

// ScrollToOffset centers the line containing the given byte offset.
func (m *Model) ScrollToOffset(off int) {
	m.ScrollToLine(m.index.LineFor(off))
}

// ScrollToError centers the current error, if there is one with a usable
// offset. Never called implicitly — jumping the viewport is a host action.
func (m *Model) ScrollToError() bool {
	serr := m.Err()
	if serr == nil || serr.Offset < 0 {
		return false
	}
	m.ScrollToOffset(serr.Offset)
	return true
}

// SetSearchRanges installs externally computed match ranges. Only the
// portion inside the visible window is ever rendered; a current match is
// additionally centered.
func (m *Model) SetSearchRanges(ranges []SearchRange) {
	m.searches = ranges
	for _, r := range ranges {
		if r.IsCurrent {
			m.ScrollToOffset(r.Start)
			return
		}
	}
}

// ClearSearch removes all match decorations.
func (m *Model) ClearSearch() { m.searches = nil }

// Format dispatches a canonical re-indent through the worker. The result is
// adopted only if the document hasn't changed in the meantime; failure is
// reported through FormatResultFunc with the buffer left untouched.
func (m *Model) Format() {
	if m.ReadOnly {
		return
	}
	m.worker.Submit(scan.Request{Text: m.doc, Version: m.version, Action: scan.ActionFormat})
}

// Stringify dispatches a YAML render of the current buffer.
func (m *Model) Stringify() {
	m.worker.Submit(scan.Request{Text: m.doc, Version: m.version, Action: scan.ActionStringify})
}

// Apply parses the buffer and hands the value to ApplyFunc. On failure the
// parse error is reported and no external state changes.
func (m *Model) Apply() {
	v, err := jsontext.Parse(m.doc)
	if err != nil {
		m.reportResult(false, fmt.Sprintf("apply failed: %s", shortError(err)))
		return
	}
	if m.ApplyFunc != nil {
		m.ApplyFunc(v)
	}
	m.reportResult(true, "applied")
}

// ---------------------------------------------------------------------------
// State machine internals
// ---------------------------------------------------------------------------

// markDirty bumps the version, enters Dirty, and restarts the debounce
// timer. The returned command delivers a tick tagged with the new version;
// ticks from superseded edits are ignored on arrival.
func (m *Model) markDirty() tea.Cmd {
	m.version++
	m.state = StateDirty
	version := m.version
	return tea.Tick(m.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{version: version}
	})
}

// dispatchScan snapshots the buffer for the worker.
func (m *Model) dispatchScan() {
	m.state = StateValidating
	m.worker.Submit(scan.Request{Text: m.doc, Version: m.version, Action: scan.ActionScan})
}

// adopt applies a scan result for the current version.
func (m *Model) adopt(res scan.Result) {
	m.index = res.Index
	m.syntaxErr = res.Err
	m.state = StateClean
	m.clampScroll()
	log.Debug().Uint64("version", res.Version).Int("lines", m.index.Lines()).
		Msg("editor: adopted scan result")
}

func (m *Model) reportResult(success bool, msg string) {
	if m.FormatResultFunc != nil {
		m.FormatResultFunc(success, msg)
	}
}

// waitForResult blocks on the worker's result channel and feeds the editor
// update loop. Re-armed after every delivery.
func (m Model) waitForResult() tea.Cmd {
	w := m.worker
	return func() tea.Msg {
		select {
		case res := <-w.Results():
			return resultMsg{res: res}
		case <-w.Done():
			return nil
		}
	}
}

func (m *Model) clampScroll() {
	maxScroll := m.index.Lines() - m.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// ensureCursorVisible nudges the scroll so the cursor's line is on screen.
func (m *Model) ensureCursorVisible() {
	if m.height <= 0 {
		return
	}
	line := m.index.LineFor(m.cursor)
	if line < m.scroll {
		m.scroll = line
	}
	if line >= m.scroll+m.height {
		m.scroll = line - m.height + 1
	}
	m.clampScroll()
}

func shortError(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
