package editor

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/jview/internal/highlight"
	"github.com/xonecas/jview/internal/viewport"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View materializes only the window around the scroll position. The cost is
// O(visible lines + overscan), whatever the document size.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	lines := m.index.Lines()
	rng := viewport.Visible(m.scroll, m.height, 1, lines)

	rows := make(map[int]string, rng.Len())
	for i := rng.First; i <= rng.Last; i++ {
		rows[i] = m.renderLine(i)
	}

	// Align the rendered block with the scroll offset.
	var b strings.Builder
	blank := strings.Repeat(" ", m.width)
	for vi := 0; vi < m.height; vi++ {
		if vi > 0 {
			b.WriteByte('\n')
		}
		row := m.scroll + vi
		if line, ok := rows[row]; ok {
			b.WriteString(line)
		} else {
			b.WriteString(blank)
		}
	}
	return b.String()
}

func (m Model) renderLine(i int) string {
	var b strings.Builder
	tw := m.width - m.gutterW()

	if m.ShowLineNumbers {
		num := fmt.Sprintf("%*d ", m.gutterDigits(), i+1)
		b.WriteString(m.Theme.Gutter.Render(num))
	}

	lineStart := m.index.Start(i)
	text, spans := m.lineSpans(i)

	cursorLine := m.focus && m.index.LineFor(m.cursor) == i
	cursorCol := m.cursor - lineStart

	content := m.renderSpans(text, spans, lineStart, cursorLine, cursorCol)
	if cursorLine && cursorCol >= len(text) {
		content += m.Theme.Cursor.Render(" ")
	}

	if lipgloss.Width(content) > tw {
		content = ansi.Truncate(content, tw, "")
	}
	b.WriteString(content)
	if pad := tw - lipgloss.Width(content); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// lineSpans produces the classified spans for line i. While the document is
// Dirty or Validating the index is stale, so the line is shown raw — the
// previous highlight would attach colors to the wrong offsets, and a brief
// unstyled window reads better than a wrongly styled one.
func (m Model) lineSpans(i int) (string, []highlight.Span) {
	if m.state != StateClean {
		text := m.rawLine(i)
		if text == "" {
			return "", nil
		}
		return text, []highlight.Span{{Text: text, Class: highlight.Plain}}
	}

	text := m.index.SliceLine(m.doc, i)
	if m.syntaxErr != nil && m.syntaxErr.Offset >= 0 {
		// Relative offsets outside this line fall back to plain spans —
		// the marker is simply not on this row.
		return text, highlight.TokenizeWithError(text, m.syntaxErr.Offset-m.index.Start(i))
	}
	return text, highlight.Tokenize(text)
}

// rawLine slices line i using the stale index's start but resyncs the end
// to the actual next terminator, so a line being edited keeps displaying
// its full current content.
func (m Model) rawLine(i int) string {
	start := m.index.Start(i)
	if start >= len(m.doc) {
		return ""
	}
	rest := m.doc[start:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		return rest[:nl]
	}
	return rest
}

// renderSpans styles each span, overlaying search decorations and the
// cursor. Overlays are resolved per byte and re-merged into runs, which
// keeps the split logic trivial and the output minimal.
func (m Model) renderSpans(text string, spans []highlight.Span, lineStart int, cursorLine bool, cursorCol int) string {
	if text == "" {
		return ""
	}

	classAt := make([]highlight.Class, len(text))
	pos := 0
	for _, s := range spans {
		for j := 0; j < len(s.Text); j++ {
			classAt[pos+j] = s.Class
		}
		pos += len(s.Text)
	}

	searchAt := m.searchStates(lineStart, len(text))

	stateAt := func(j int) cellState {
		return cellState{
			class:  classAt[j],
			search: searchAt[j],
			cursor: cursorLine && j == cursorCol,
		}
	}

	var b strings.Builder
	runFrom := 0
	cur := stateAt(0)
	flush := func(upto int) {
		run := strings.ReplaceAll(text[runFrom:upto], "\t", strings.Repeat(" ", m.tabWidth()))
		b.WriteString(m.styleFor(cur).Render(run))
	}
	for j := 1; j < len(text); j++ {
		if st := stateAt(j); st != cur {
			flush(j)
			runFrom = j
			cur = st
		}
	}
	flush(len(text))
	return b.String()
}

// searchStates marks each byte of the window line: 0 plain, 1 match,
// 2 current match.
func (m Model) searchStates(lineStart, n int) []int8 {
	states := make([]int8, n)
	for _, r := range m.searches {
		from := r.Start - lineStart
		to := r.End - lineStart
		if to <= 0 || from >= n {
			continue
		}
		if from < 0 {
			from = 0
		}
		if to > n {
			to = n
		}
		mark := int8(1)
		if r.IsCurrent {
			mark = 2
		}
		for j := from; j < to; j++ {
			if states[j] < mark {
				states[j] = mark
			}
		}
	}
	return states
}

// cellState is the fully resolved decoration of one byte of a rendered
// line: its grammar class plus any search or cursor overlay.
type cellState struct {
	class  highlight.Class
	search int8
	cursor bool
}

func (m Model) styleFor(st cellState) lipgloss.Style {
	var sty lipgloss.Style
	switch {
	case st.class == highlight.ErrMarker:
		// The marker outranks search decoration; a masked error is the
		// one thing this surface must never show.
		sty = m.Theme.Marker
	case st.search == 2:
		sty = m.Theme.SearchCurrent
	case st.search == 1:
		sty = m.Theme.Search
	default:
		sty = m.Theme.Style(st.class)
	}
	if st.cursor {
		sty = sty.Reverse(true)
	}
	return sty
}

func (m Model) gutterDigits() int {
	digits := len(fmt.Sprintf("%d", m.index.Lines()))
	if digits < 2 {
		digits = 2
	}
	return digits
}

// gutterW returns the total gutter width, 0 when line numbers are off.
func (m Model) gutterW() int {
	if !m.ShowLineNumbers {
		return 0
	}
	return m.gutterDigits() + 1
}
