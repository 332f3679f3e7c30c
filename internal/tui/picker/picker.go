// Package picker is the recent-documents overlay: type to filter, enter to
// open.
package picker

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/xonecas/jview/internal/highlight"
)

// Entry is one selectable document.
type Entry struct {
	Path   string
	Detail string // shown dimmed after the path
}

// Event is the outcome of a key press. nil means the picker consumed the key
// and stays open.
type Event any

// Closed signals dismissal without a choice.
type Closed struct{}

// Picked carries the chosen document.
type Picked struct{ Path string }

// Model is the picker state. Filtering is instant: the entry list is small
// and already in memory.
type Model struct {
	entries  []Entry
	filtered []Entry
	query    []rune
	cursor   int
	selected int

	theme highlight.Theme
}

// New builds a picker over the given entries, most relevant first.
func New(entries []Entry, theme highlight.Theme) *Model {
	m := &Model{entries: entries, theme: theme}
	m.refilter()
	return m
}

// Handle processes one key press.
func (m *Model) Handle(msg tea.KeyPressMsg) Event {
	switch msg.Keystroke() {
	case "esc", "ctrl+c":
		return Closed{}
	case "enter":
		if len(m.filtered) == 0 {
			return nil
		}
		return Picked{Path: m.filtered[m.selected].Path}
	case "up", "ctrl+p":
		if m.selected > 0 {
			m.selected--
		}
		return nil
	case "down", "ctrl+n":
		if m.selected < len(m.filtered)-1 {
			m.selected++
		}
		return nil
	case "left":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "right":
		if m.cursor < len(m.query) {
			m.cursor++
		}
		return nil
	case "home", "ctrl+a":
		m.cursor = 0
		return nil
	case "end", "ctrl+e":
		m.cursor = len(m.query)
		return nil
	case "backspace":
		if m.cursor > 0 {
			m.query = append(m.query[:m.cursor-1], m.query[m.cursor:]...)
			m.cursor--
			m.refilter()
		}
		return nil
	case "ctrl+u":
		m.query = nil
		m.cursor = 0
		m.refilter()
		return nil
	}

	if msg.Text != "" {
		for _, r := range msg.Text {
			m.query = append(m.query[:m.cursor], append([]rune{r}, m.query[m.cursor:]...)...)
			m.cursor++
		}
		m.refilter()
	}
	return nil
}

// refilter narrows entries to those whose path contains the query,
// case-insensitive, and keeps the selection in range.
func (m *Model) refilter() {
	q := strings.ToLower(string(m.query))
	m.filtered = m.filtered[:0]
	for _, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.Path), q) {
			m.filtered = append(m.filtered, e)
		}
	}
	if m.selected >= len(m.filtered) {
		m.selected = 0
	}
}

// View renders the picker centered over the app.
func (m *Model) View(appWidth, appHeight int) string {
	w := appWidth * 70 / 100
	if w < 40 {
		w = 40
	}
	listH := len(m.entries)
	if listH < 3 {
		listH = 3
	}
	if limit := appHeight - 6; listH > limit && limit > 0 {
		listH = limit
	}

	innerW := w - 4 // border + padding
	p := m.theme.Palette
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted))
	sel := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Bg)).
		Background(lipgloss.Color(p.Accent))

	var b strings.Builder
	b.WriteString(m.renderQuery())
	b.WriteByte('\n')
	b.WriteString(dim.Render(strings.Repeat("─", innerW)))

	shown := 0
	first := 0
	if m.selected >= listH {
		first = m.selected - listH + 1
	}
	for i := first; i < len(m.filtered) && shown < listH; i++ {
		b.WriteByte('\n')
		line := m.filtered[i].Path
		if i == m.selected {
			b.WriteString(sel.Render(pad(line, innerW)))
		} else {
			b.WriteString(line)
			if d := m.filtered[i].Detail; d != "" {
				b.WriteString(dim.Render("  " + d))
			}
		}
		shown++
	}
	if shown == 0 {
		b.WriteByte('\n')
		b.WriteString(dim.Render("no matches"))
		shown++
	}
	for ; shown < listH; shown++ {
		b.WriteByte('\n')
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Border)).
		Foreground(lipgloss.Color(p.Fg)).
		Padding(0, 1).
		Width(w - 2).
		Render(b.String())

	return lipgloss.Place(appWidth, appHeight, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderQuery() string {
	cursor := lipgloss.NewStyle().Reverse(true)
	before := string(m.query[:m.cursor])
	at, after := " ", ""
	if m.cursor < len(m.query) {
		at = string(m.query[m.cursor])
		after = string(m.query[m.cursor+1:])
	}
	return "open: " + before + cursor.Render(at) + after
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
