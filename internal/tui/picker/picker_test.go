package picker

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/jview/internal/highlight"
)

func key(ks string) tea.KeyPressMsg {
	switch ks {
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	r := []rune(ks)[0]
	return tea.KeyPressMsg{Code: r, Text: ks}
}

func testEntries() []Entry {
	return []Entry{
		{Path: "/tmp/alpha.json", Detail: "Jan 2 10:00"},
		{Path: "/tmp/beta.json", Detail: "Jan 1 09:00"},
		{Path: "/var/data/gamma.json"},
	}
}

func TestEnterPicksSelected(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	p.Handle(key("down"))
	ev := p.Handle(key("enter"))
	picked, ok := ev.(Picked)
	if !ok {
		t.Fatalf("event = %T, want Picked", ev)
	}
	if picked.Path != "/tmp/beta.json" {
		t.Errorf("picked %q", picked.Path)
	}
}

func TestEscCloses(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	if _, ok := p.Handle(key("esc")).(Closed); !ok {
		t.Fatal("esc did not close")
	}
}

func TestFilterNarrowsAndResetsSelection(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	p.Handle(key("down"))
	p.Handle(key("down")) // select gamma

	for _, r := range "beta" {
		p.Handle(key(string(r)))
	}
	if len(p.filtered) != 1 {
		t.Fatalf("filtered = %d entries, want 1", len(p.filtered))
	}

	ev := p.Handle(key("enter"))
	picked, ok := ev.(Picked)
	if !ok {
		t.Fatalf("event = %T, want Picked", ev)
	}
	if picked.Path != "/tmp/beta.json" {
		t.Errorf("picked %q", picked.Path)
	}
}

func TestFilterIsCaseInsensitive(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	for _, r := range "GAMMA" {
		p.Handle(key(string(r)))
	}
	if len(p.filtered) != 1 || p.filtered[0].Path != "/var/data/gamma.json" {
		t.Errorf("filtered = %v", p.filtered)
	}
}

func TestBackspaceWidensFilter(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	for _, r := range "betaX" {
		p.Handle(key(string(r)))
	}
	if len(p.filtered) != 0 {
		t.Fatalf("filtered = %d entries, want 0", len(p.filtered))
	}
	p.Handle(key("backspace"))
	if len(p.filtered) != 1 {
		t.Errorf("filtered = %d entries after backspace, want 1", len(p.filtered))
	}
}

func TestEnterWithNoMatchesStaysOpen(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	for _, r := range "nothing" {
		p.Handle(key(string(r)))
	}
	if ev := p.Handle(key("enter")); ev != nil {
		t.Fatalf("event = %T, want nil", ev)
	}
}

func TestViewListsEntries(t *testing.T) {
	p := New(testEntries(), highlight.NewTheme(""))
	out := p.View(100, 30)
	for _, want := range []string{"alpha.json", "beta.json", "gamma.json", "open:"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
