package highlight

import (
	"fmt"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// Palette holds the raw colors derived from a Chroma style: one per span
// class plus the chrome colors the host shell needs. Deterministic — the
// same theme name always produces the same palette.
type Palette struct {
	Bg     string // theme background
	Fg     string // primary text
	Gutter string // 30% bg→fg, line numbers
	Border string // 10% bg→fg, dividers
	Muted  string // 45% bg→fg, status text
	Accent string // chroma keyword color, current search match
	Error  string // chroma Error token lerped toward fg

	Key    string
	String string
	Number string
	Bool   string
	Null   string
}

// Theme maps span classes and UI chrome to ready-to-use lipgloss styles.
type Theme struct {
	Name    string
	Palette Palette

	Plain  lipgloss.Style
	Key    lipgloss.Style
	String lipgloss.Style
	Number lipgloss.Style
	Bool   lipgloss.Style
	Null   lipgloss.Style
	Marker lipgloss.Style

	Gutter        lipgloss.Style
	Cursor        lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	Search        lipgloss.Style
	SearchCurrent lipgloss.Style
	Notice        lipgloss.Style
}

// NewTheme derives a Theme from a Chroma style name. Unknown names and
// missing token entries fall back to a plain default palette, never an
// error — a viewer with bland colors beats one that refuses to start.
func NewTheme(name string) Theme {
	p := themePalette(name)

	fg := func(hex string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}

	return Theme{
		Name:    name,
		Palette: p,

		Plain:  fg(p.Fg),
		Key:    fg(p.Key).Bold(true),
		String: fg(p.String),
		Number: fg(p.Number),
		Bool:   fg(p.Bool),
		Null:   fg(p.Null).Faint(true),
		Marker: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Bg)).
			Background(lipgloss.Color(p.Error)).
			Bold(true),

		Gutter:      fg(p.Gutter),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Status:      fg(p.Muted),
		StatusError: fg(p.Error).Bold(true),
		Search: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Bg)).
			Background(lipgloss.Color(p.Muted)),
		SearchCurrent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Bg)).
			Background(lipgloss.Color(p.Accent)),
		Notice: fg(p.Accent).Bold(true),
	}
}

// Style returns the style for a span class.
func (t Theme) Style(c Class) lipgloss.Style {
	switch c {
	case Key:
		return t.Key
	case String:
		return t.String
	case Number:
		return t.Number
	case Bool:
		return t.Bool
	case Null:
		return t.Null
	case ErrMarker:
		return t.Marker
	default:
		return t.Plain
	}
}

// themePalette extracts palette colors from a Chroma style, one token type
// per span class, with grayscale chrome interpolated between bg and fg.
func themePalette(name string) Palette {
	sty := styles.Get(name)
	if sty == nil {
		return defaultPalette()
	}

	base := sty.Get(chroma.Background)
	bg, fg := "#101010", "#c8c8c8"
	if base.Background.IsSet() {
		bg = base.Background.String()
	}
	if base.Colour.IsSet() {
		fg = base.Colour.String()
	}

	tokenColor := func(tt chroma.TokenType, fallback string) string {
		if e := sty.Get(tt); e.Colour.IsSet() {
			return e.Colour.String()
		}
		return fallback
	}

	accent := tokenColor(chroma.Keyword, fg)
	return Palette{
		Bg:     bg,
		Fg:     fg,
		Gutter: lerpHex(bg, fg, 0.30),
		Border: lerpHex(bg, fg, 0.10),
		Muted:  lerpHex(bg, fg, 0.45),
		Accent: accent,
		Error:  errorColor(sty, bg, fg),

		Key:    tokenColor(chroma.NameTag, accent),
		String: tokenColor(chroma.LiteralString, fg),
		Number: tokenColor(chroma.LiteralNumber, fg),
		Bool:   tokenColor(chroma.KeywordConstant, accent),
		Null:   tokenColor(chroma.KeywordConstant, accent),
	}
}

func defaultPalette() Palette {
	return Palette{
		Bg: "#101010", Fg: "#c8c8c8",
		Gutter: "#4a4a4a", Border: "#222222", Muted: "#646464",
		Accent: "#00afff", Error: "#c84040",
		Key: "#00afff", String: "#87d787", Number: "#d7af5f",
		Bool: "#af87ff", Null: "#808080",
	}
}

// errorColor pulls the Error token color, lerped toward fg so it stays
// visible against the theme background.
func errorColor(sty *chroma.Style, bg, fg string) string {
	e := sty.Get(chroma.Error)
	if !e.Colour.IsSet() && !e.Background.IsSet() {
		return lerpHex(bg, fg, 0.60)
	}
	src := fg
	if e.Background.IsSet() {
		src = e.Background.String()
	} else {
		src = e.Colour.String()
	}
	return lerpHex(bg, src, 0.75)
}

// lerpHex linearly interpolates between two "#rrggbb" colors at fraction t.
func lerpHex(a, b string, t float64) string {
	ar, ag, ab := hexToRGBf(a)
	br, bgc, bb := hexToRGBf(b)
	return fmt.Sprintf("#%02x%02x%02x",
		clampByte(ar+(br-ar)*t),
		clampByte(ag+(bgc-ag)*t),
		clampByte(ab+(bb-ab)*t),
	)
}

func hexToRGBf(hex string) (float64, float64, float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	return float64(hexByte(hex[1], hex[2])),
		float64(hexByte(hex[3], hex[4])),
		float64(hexByte(hex[5], hex[6]))
}

func hexByte(hi, lo byte) int { return hexNibble(hi)<<4 | hexNibble(lo) }

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v + 0.5)
}
