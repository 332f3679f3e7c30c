package tui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/jview/internal/config"
	"github.com/xonecas/jview/internal/highlight"
	"github.com/xonecas/jview/internal/store"
	"github.com/xonecas/jview/internal/tui/editor"
	"github.com/xonecas/jview/internal/tui/picker"
)

type focusMode int

const (
	modeEdit focusMode = iota
	modeSearch
)

// Model is the application shell: the editing surface on the left, an
// optional YAML preview on the right, a search prompt, and a status bar.
type Model struct {
	cfg    *config.Config
	theme  highlight.Theme
	styles styles

	filePath string
	readOnly bool

	editor editor.Model
	search textinput.Model
	picker *picker.Model

	store *store.Store

	width, height int
	layout        layout

	mode    focusMode
	preview bool

	previewText   string
	previewLines  []string
	previewScroll int

	// Committed search state. Matches are byte offsets of each hit.
	query   string
	matches []int
	current int

	notice    string
	noticeErr bool
	noticeSeq int

	// Editor callbacks fire inside Update; they hand their payloads to
	// the event pump instead of touching the model directly.
	events chan tea.Msg
}

// Options configures the shell.
type Options struct {
	FilePath string
	Content  string
	ReadOnly bool
	LastLine int
	Config   *config.Config
	Store    *store.Store
}

// New assembles the shell around the initial document.
func New(opts Options) Model {
	theme := highlight.NewTheme(opts.Config.UI.SyntaxThemeOrDefault())

	ed := editor.New(opts.Content)
	ed.ShowLineNumbers = true
	ed.ReadOnly = opts.ReadOnly
	ed.Theme = theme
	ed.Debounce = opts.Config.Editor.Debounce()
	ed.TabWidth = opts.Config.Editor.TabWidthOrDefault()
	ed.Focus()

	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/"

	events := make(chan tea.Msg, 16)
	ed.FormatResultFunc = func(ok bool, msg string) {
		events <- noticeMsg{text: msg, isErr: !ok}
	}
	ed.StringifyFunc = func(yaml string) {
		events <- yamlMsg{text: yaml}
	}
	ed.ApplyFunc = func(any) {
		events <- applyMsg{}
	}

	m := Model{
		cfg:      opts.Config,
		theme:    theme,
		styles:   newStyles(theme),
		filePath: opts.FilePath,
		readOnly: opts.ReadOnly,
		editor:   ed,
		search:   search,
		store:    opts.Store,
		events:   events,
	}
	if opts.LastLine > 0 {
		m.editor.ScrollToLine(opts.LastLine)
	}
	return m
}

// Init starts the editor's result pump and the shell's event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.editor.Init(), m.waitForEvent())
}

// Close releases the background worker. The store is owned by main.
func (m *Model) Close() { m.editor.Close() }

// TopLine exposes the editor scroll position for persistence on exit.
func (m Model) TopLine() int { return m.editor.TopLine() }

// FilePath is the document backing this session, empty for stdin.
func (m Model) FilePath() string { return m.filePath }
