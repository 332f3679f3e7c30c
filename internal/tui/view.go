package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/jview/internal/tui/editor"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() tea.View {
	content := m.renderContent()
	if m.picker != nil {
		content = m.picker.View(m.width, m.height)
	}
	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// renderContent produces the string content for the view.
func (m Model) renderContent() string {
	if m.width == 0 {
		return ""
	}

	contentH := m.height - statusRows
	var b strings.Builder

	editorLines := strings.Split(m.editor.View(), "\n")
	for row := 0; row < contentH; row++ {
		m.renderPaneRow(&b, editorLines, row, m.layout.editor.Dx())
		if m.preview {
			b.WriteString(m.styles.Border.Render("│"))
			m.renderPreviewRow(&b, row)
		}
		b.WriteByte('\n')
	}

	m.renderStatusBar(&b)
	return b.String()
}

// renderPaneRow writes one row of a pane, truncated and padded to width.
func (m Model) renderPaneRow(b *strings.Builder, lines []string, row, width int) {
	var line string
	if row < len(lines) {
		line = ansi.Truncate(lines[row], width, "")
	}
	b.WriteString(line)
	if pad := width - lipgloss.Width(line); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
}

// renderPreviewRow writes one row of the YAML pane at the current scroll.
func (m Model) renderPreviewRow(b *strings.Builder, row int) {
	width := m.layout.preview.Dx()
	idx := m.previewScroll + row
	var line string
	if idx >= 0 && idx < len(m.previewLines) {
		line = m.styles.Preview.Render(ansi.Truncate(" "+m.previewLines[idx], width, "…"))
	}
	b.WriteString(line)
	if pad := width - lipgloss.Width(line); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
}

// renderStatusBar writes the separator and the status line.
func (m Model) renderStatusBar(b *strings.Builder) {
	b.WriteString(m.styles.Border.Render(strings.Repeat("─", m.width)))
	b.WriteByte('\n')

	left := m.statusLeft()
	right := m.statusRight()

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := m.width - leftW - rightW - 1
	if gap < 1 {
		// Right side wins the space fight; the left is informational.
		left = ansi.Truncate(left, m.width-rightW-2, "…")
		gap = m.width - lipgloss.Width(left) - rightW - 1
		if gap < 0 {
			gap = 0
		}
	}

	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(right)
	b.WriteByte(' ')
}

func (m Model) statusLeft() string {
	if m.mode == modeSearch {
		return " " + m.search.View()
	}

	path := m.filePath
	if path == "" {
		path = "(stdin)"
	}
	parts := []string{m.styles.Status.Render(" " + path)}

	if m.readOnly {
		parts = append(parts, m.styles.Muted.Render("[ro]"))
	}
	if st := m.editor.State(); st != editor.StateClean {
		parts = append(parts, m.styles.Muted.Render(st.String()+"…"))
	} else if serr := m.editor.Err(); serr != nil {
		loc := ""
		if line := m.editor.ErrLine(); line > 0 {
			loc = fmt.Sprintf("line %d: ", line)
		}
		parts = append(parts, m.styles.StatusError.Render("✗ "+loc+serr.Msg))
	} else {
		parts = append(parts, m.styles.Status.Render("✓"))
	}

	return strings.Join(parts, " ")
}

func (m Model) statusRight() string {
	var parts []string

	if m.notice != "" {
		style := m.styles.Notice
		if m.noticeErr {
			style = m.styles.StatusError
		}
		parts = append(parts, style.Render(m.notice))
	}
	if n := len(m.matches); n > 0 {
		parts = append(parts, m.styles.Status.Render(fmt.Sprintf("%d/%d", m.current+1, n)))
	}

	parts = append(parts, m.styles.Muted.Render(
		fmt.Sprintf("%dL %s", m.editor.LineCount(), humanSize(len(m.editor.Value())))))

	line, col := m.editor.CursorPosition()
	parts = append(parts, m.styles.Status.Render(fmt.Sprintf("%d:%d", line, col)))

	return strings.Join(parts, m.styles.Status.Render("  "))
}

func humanSize(n int) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%dB", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1fK", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1fM", float64(n)/(1<<20))
	}
}
