package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/xonecas/jview/internal/highlight"
)

// styles is the shell chrome, derived from the syntax theme so the panes and
// the document never clash.
type styles struct {
	Border      lipgloss.Style
	Muted       lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Notice      lipgloss.Style
	Preview     lipgloss.Style
}

func newStyles(th highlight.Theme) styles {
	p := th.Palette
	return styles{
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Border)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Status:      th.Status,
		StatusError: th.StatusError,
		Notice:      th.Notice,
		Preview:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fg)),
	}
}
