package editor

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/xonecas/jview/internal/highlight"
	"github.com/xonecas/jview/internal/scan"
	"github.com/xonecas/jview/internal/textindex"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

// newTest builds a surface with a short debounce and a window.
func newTest(t *testing.T, doc string) Model {
	t.Helper()
	m := New(doc)
	m.Debounce = time.Millisecond
	m.SetSize(60, 10)
	m.Focus()
	t.Cleanup(m.Close)
	return m
}

// settle pumps worker results until the surface is Clean.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.waitForResult()
	for i := 0; m.State() != StateClean; i++ {
		if i > 100 {
			t.Fatal("surface never settled")
		}
		msg := cmd()
		if msg == nil {
			t.Fatal("worker closed while settling")
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func scanResult(version uint64, text string) resultMsg {
	return resultMsg{res: scan.Result{
		Version: version,
		Action:  scan.ActionScan,
		Index:   textindex.Scan(text),
	}}
}

func TestInitialScanAdopted(t *testing.T) {
	m := settle(t, newTest(t, "{\n  \"a\": 1\n}"))
	if m.State() != StateClean {
		t.Fatalf("state = %v, want clean", m.State())
	}
	if m.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", m.LineCount())
	}
	if m.Err() != nil {
		t.Errorf("Err = %v, want nil", m.Err())
	}
}

func TestStaleResponseNeverWins(t *testing.T) {
	m := settle(t, newTest(t, "{}"))

	// Edit twice: versions 2 and 3.
	m, _ = m.splice(1, 1, "\n")
	m, _ = m.splice(2, 2, "\n")
	if m.Version() != 3 {
		t.Fatalf("version = %d, want 3", m.Version())
	}

	// The newer response arrives first and is adopted.
	m, _ = m.Update(scanResult(3, m.Value()))
	if m.State() != StateClean {
		t.Fatalf("state = %v, want clean after current response", m.State())
	}
	linesAfterV3 := m.LineCount()

	// The older response straggles in afterward: dropped unconditionally.
	m, _ = m.Update(scanResult(2, "{}"))
	if m.State() != StateClean {
		t.Errorf("stale response disturbed state: %v", m.State())
	}
	if m.LineCount() != linesAfterV3 {
		t.Errorf("stale response replaced the index: %d lines, want %d",
			m.LineCount(), linesAfterV3)
	}
}

func TestEditMarksDirtyAndBumpsVersion(t *testing.T) {
	m := settle(t, newTest(t, "{}"))
	v := m.Version()

	m, cmd := m.splice(1, 1, "\"x\": 1")
	if m.State() != StateDirty {
		t.Fatalf("state = %v, want dirty", m.State())
	}
	if m.Version() != v+1 {
		t.Errorf("version = %d, want %d", m.Version(), v+1)
	}
	if cmd == nil {
		t.Fatal("edit returned no debounce command")
	}
}

func TestDebounceCoalescesEdits(t *testing.T) {
	m := settle(t, newTest(t, "[]"))

	// Two edits inside one debounce window.
	m, tick1 := m.splice(1, 1, "1")
	m, tick2 := m.splice(2, 2, ",2")

	// The first tick fires with the superseded version: ignored, no
	// dispatch.
	m, _ = m.Update(tick1())
	if m.State() != StateDirty {
		t.Fatalf("stale tick dispatched a scan: state = %v", m.State())
	}

	// The second tick carries the current version: one dispatch for the
	// buffer as of the second edit.
	m, _ = m.Update(tick2())
	if m.State() != StateValidating {
		t.Fatalf("state = %v, want validating", m.State())
	}

	m = settle(t, m)
	if m.Err() != nil {
		t.Errorf("validation failed for %q: %v", m.Value(), m.Err())
	}
	if m.Value() != "[1,2]" {
		t.Errorf("doc = %q, want [1,2]", m.Value())
	}
}

func TestWindowedRenderBound(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100_000; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	m := settle(t, newTest(t, b.String()))
	m.SetSize(40, 30)
	m.ScrollToLine(500)

	out := stripANSI(m.View())
	rows := strings.Split(out, "\n")
	if len(rows) != 30 {
		t.Fatalf("rendered %d rows, want 30", len(rows))
	}
	if !strings.Contains(out, "line 500") {
		t.Errorf("window around line 500 missing content:\n%s", out)
	}
	if strings.Contains(out, "line 600") {
		t.Error("window leaked far-away lines")
	}
}

func TestRawFallbackWhileDirty(t *testing.T) {
	m := settle(t, newTest(t, "{}"))

	// Insert without letting the scan land: the new text must still be
	// visible immediately, unhighlighted, via the previous index.
	m, _ = m.splice(1, 1, "\"fresh\"")
	out := stripANSI(m.View())
	if !strings.Contains(out, `{"fresh"}`) {
		t.Errorf("dirty window does not show the edit:\n%s", out)
	}
}

func TestValidationErrorSurfaces(t *testing.T) {
	m := settle(t, newTest(t, `{"a": 1,}`))
	serr := m.Err()
	if serr == nil {
		t.Fatal("no validation error for trailing comma")
	}
	if serr.Offset < 7 || serr.Offset > 8 {
		t.Errorf("error offset = %d, want near the comma", serr.Offset)
	}

	// The marker row still tokenizes the rest of the line.
	text, spans := m.lineSpans(0)
	if text != `{"a": 1,}` {
		t.Fatalf("lineSpans text = %q", text)
	}
	var sawMarker, sawKey bool
	for _, s := range spans {
		switch {
		case s.Class == highlight.ErrMarker:
			sawMarker = true
		case s.Text == `"a"`:
			sawKey = true
		}
	}
	if !sawMarker {
		t.Error("no marker span on the error line")
	}
	if !sawKey {
		t.Error("surrounding tokens lost their classification")
	}
}

func TestFormatReplacesBuffer(t *testing.T) {
	m := settle(t, newTest(t, `{"b":2,"a":1}`))

	var gotOK bool
	var gotMsg string
	m.FormatResultFunc = func(ok bool, msg string) { gotOK, gotMsg = ok, msg }

	m.Format()

	// First result is the format itself; it replaces the buffer and kicks
	// off a fresh scan, which settle then drains.
	m, _ = m.Update(m.waitForResult()())
	m = settle(t, m)

	if !gotOK {
		t.Fatalf("format reported failure: %q", gotMsg)
	}
	if want := "{\n  \"b\": 2,\n  \"a\": 1\n}"; m.Value() != want {
		t.Errorf("doc = %q, want %q", m.Value(), want)
	}
	if m.Err() != nil {
		t.Errorf("formatted buffer failed validation: %v", m.Err())
	}
}

func TestFormatFailureLeavesBuffer(t *testing.T) {
	m := settle(t, newTest(t, `{"broken": }`))

	var gotOK = true
	m.FormatResultFunc = func(ok bool, _ string) { gotOK = ok }

	before := m.Value()
	m.Format()

	// Pump exactly one result: the failed format. No follow-up scan is
	// dispatched, so the surface stays as it was.
	msg := m.waitForResult()()
	m, _ = m.Update(msg)

	if gotOK {
		t.Error("format of invalid document reported success")
	}
	if m.Value() != before {
		t.Errorf("failed format mutated the buffer: %q", m.Value())
	}
}

func TestApply(t *testing.T) {
	m := settle(t, newTest(t, `{"a": 1}`))

	var applied any
	m.ApplyFunc = func(v any) { applied = v }
	m.Apply()

	obj, ok := applied.(map[string]any)
	if !ok {
		t.Fatalf("applied value = %T, want object", applied)
	}
	if obj["a"] != float64(1) {
		t.Errorf(`applied["a"] = %v`, obj["a"])
	}
}

func TestApplyInvalidReportsWithoutCallback(t *testing.T) {
	m := settle(t, newTest(t, `{"a": }`))

	var applied bool
	var reported string
	m.ApplyFunc = func(any) { applied = true }
	m.FormatResultFunc = func(ok bool, msg string) {
		if !ok {
			reported = msg
		}
	}
	m.Apply()

	if applied {
		t.Error("apply of invalid document reached the host")
	}
	if reported == "" {
		t.Error("apply failure not reported")
	}
}

func TestSearchCentersCurrentMatch(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&b, "row %d\n", i)
	}
	doc := b.String()
	m := settle(t, newTest(t, doc))
	m.SetSize(40, 20)

	target := strings.Index(doc, "row 700")
	m.SetSearchRanges([]SearchRange{
		{Start: 10, End: 13},
		{Start: target, End: target + 7, IsCurrent: true},
	})

	top := m.TopLine()
	if top < 680 || top > 700 {
		t.Errorf("current match not centered: top = %d", top)
	}

	out := stripANSI(m.View())
	if !strings.Contains(out, "row 700") {
		t.Error("current match not in window")
	}
}

func TestScrollToError(t *testing.T) {
	var b strings.Builder
	b.WriteString("[\n")
	for i := 0; i < 500; i++ {
		b.WriteString("  1,\n")
	}
	b.WriteString("  oops\n]")
	m := settle(t, newTest(t, b.String()))
	m.SetSize(40, 20)

	if m.Err() == nil {
		t.Fatal("expected a validation error")
	}
	if !m.ScrollToError() {
		t.Fatal("ScrollToError found nothing")
	}
	if !strings.Contains(stripANSI(m.View()), "oops") {
		t.Error("error line not in window after ScrollToError")
	}
}

func TestCursorPosition(t *testing.T) {
	m := settle(t, newTest(t, "ab\ncd"))
	m.cursor = 4 // the 'd'
	line, col := m.CursorPosition()
	if line != 2 || col != 2 {
		t.Errorf("CursorPosition = %d:%d, want 2:2", line, col)
	}
}
