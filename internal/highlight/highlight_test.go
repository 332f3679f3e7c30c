package highlight

import (
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func classes(spans []Span) []Class {
	out := make([]Class, len(spans))
	for i, s := range spans {
		out[i] = s.Class
	}
	return out
}

func joined(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			"object with key",
			`{"a": 1}`,
			[]Span{
				{`{`, Plain}, {`"a"`, Key}, {`: `, Plain}, {`1`, Number}, {`}`, Plain},
			},
		},
		{
			"string value",
			`{"k": "v"}`,
			[]Span{
				{`{`, Plain}, {`"k"`, Key}, {`: `, Plain}, {`"v"`, String}, {`}`, Plain},
			},
		},
		{
			"literals",
			`[true, false, null]`,
			[]Span{
				{`[`, Plain}, {`true`, Bool}, {`, `, Plain}, {`false`, Bool},
				{`, `, Plain}, {`null`, Null}, {`]`, Plain},
			},
		},
		{
			"number forms",
			`[-1, 2.5, 3e10, 4E-2]`,
			[]Span{
				{`[`, Plain}, {`-1`, Number}, {`, `, Plain}, {`2.5`, Number},
				{`, `, Plain}, {`3e10`, Number}, {`, `, Plain}, {`4E-2`, Number},
				{`]`, Plain},
			},
		},
		{
			"escaped quote in string",
			`"a\"b"`,
			[]Span{{`"a\"b"`, String}},
		},
		{
			"key with spaced colon",
			`"k"  : 1`,
			[]Span{{`"k"`, Key}, {`  : `, Plain}, {`1`, Number}},
		},
		{
			"literal inside a word stays plain",
			`nullify`,
			[]Span{{`nullify`, Plain}},
		},
		{
			"unterminated string",
			`"abc`,
			[]Span{{`"abc`, String}},
		},
		{"empty", ``, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) =\n  %v\nwant\n  %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		a := Tokenize(text)
		b := Tokenize(text)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("Tokenize not idempotent for %q", text)
		}
		if joined(a) != text {
			t.Fatalf("span concat %q != input %q", joined(a), text)
		}
	})
}

func TestTokenizeWithError(t *testing.T) {
	// Trailing comma scenario: the stray comma gets the marker and the
	// surrounding tokens still classify.
	text := `{"a": 1,}`
	spans := TokenizeWithError(text, 7)

	if joined(spans) != text {
		t.Fatalf("span concat %q != input %q", joined(spans), text)
	}

	var marker *Span
	for i := range spans {
		if spans[i].Class == ErrMarker {
			if marker != nil {
				t.Fatal("more than one marker span")
			}
			marker = &spans[i]
		}
	}
	if marker == nil {
		t.Fatal("no marker span emitted")
	}
	if marker.Text != "," {
		t.Errorf("marker text = %q, want %q", marker.Text, ",")
	}

	want := []Class{Plain, Key, Plain, Number, ErrMarker, Plain}
	if got := classes(spans); !reflect.DeepEqual(got, want) {
		t.Errorf("classes = %v, want %v", got, want)
	}
}

func TestTokenizeWithErrorOutOfRange(t *testing.T) {
	text := `{"a": 1}`
	for _, errAt := range []int{-1, len(text), len(text) + 50} {
		spans := TokenizeWithError(text, errAt)
		for _, s := range spans {
			if s.Class == ErrMarker {
				t.Errorf("errAt=%d: marker emitted for off-screen offset", errAt)
			}
		}
	}
}

func TestTokenizeWithErrorConcatFaithful(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[{}\[\]",:0-9a-z \n]{0,40}`).Draw(t, "text")
		errAt := rapid.IntRange(-1, len(text)).Draw(t, "errAt")
		if joined(TokenizeWithError(text, errAt)) != text {
			t.Fatalf("concat broken for %q at %d", text, errAt)
		}
	})
}

func TestThemeStyles(t *testing.T) {
	th := NewTheme("vulcan")
	if th.Palette.Bg == "" || th.Palette.Fg == "" {
		t.Fatal("palette missing base colors")
	}
	// Unknown theme falls back, never panics.
	fb := NewTheme("no-such-theme-anywhere")
	if fb.Palette != defaultPalette() {
		t.Errorf("unknown theme: palette = %+v, want defaults", fb.Palette)
	}
	// Every class resolves to some style without panicking.
	for _, c := range []Class{Plain, Key, String, Number, Bool, Null, ErrMarker} {
		_ = th.Style(c)
	}
}

func TestPaletteDeterministic(t *testing.T) {
	a := themePalette("monokai")
	b := themePalette("monokai")
	if a != b {
		t.Error("palette derivation not deterministic")
	}
}
