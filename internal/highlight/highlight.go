// Package highlight tokenizes JSON-like text into classified spans and
// derives terminal styles for them from a Chroma theme. Tokenizing is a pure
// function of the input slice: the visible window is re-tokenized on every
// scroll tick, so the same slice must always produce the same spans.
package highlight

// Class identifies how a span should be styled.
type Class int

const (
	Plain Class = iota
	Key
	String
	Number
	Bool
	Null
	// ErrMarker is only ever produced by TokenizeWithError, never by
	// Tokenize. It wraps the single offending character of a parse error.
	ErrMarker
)

// Span is a run of text with a single classification. Concatenating the
// Text of all spans returned for a slice reproduces the slice exactly.
type Span struct {
	Text  string
	Class Class
}

// Tokenize splits a text slice into classified spans. Recognized, in
// priority order: quoted strings (reclassified as Key when followed by a
// colon), the literals true/false/null, and numeric literals. Everything
// else passes through as Plain.
func Tokenize(text string) []Span {
	var spans []Span
	plainFrom := 0

	flushPlain := func(upto int) {
		if upto > plainFrom {
			spans = append(spans, Span{Text: text[plainFrom:upto], Class: Plain})
		}
	}

	i := 0
	for i < len(text) {
		switch c := text[i]; {
		case c == '"':
			end := scanString(text, i)
			class := String
			if isKey(text, end) {
				class = Key
			}
			flushPlain(i)
			spans = append(spans, Span{Text: text[i:end], Class: class})
			plainFrom = end
			i = end

		case c == 't' && hasLiteral(text, i, "true"),
			c == 'f' && hasLiteral(text, i, "false"):
			end := i + 4
			if c == 'f' {
				end = i + 5
			}
			flushPlain(i)
			spans = append(spans, Span{Text: text[i:end], Class: Bool})
			plainFrom = end
			i = end

		case c == 'n' && hasLiteral(text, i, "null"):
			flushPlain(i)
			spans = append(spans, Span{Text: text[i : i+4], Class: Null})
			plainFrom = i + 4
			i += 4

		case c == '-' && i+1 < len(text) && isDigit(text[i+1]), isDigit(c):
			end := scanNumber(text, i)
			flushPlain(i)
			spans = append(spans, Span{Text: text[i:end], Class: Number})
			plainFrom = end
			i = end

		default:
			i++
		}
	}
	flushPlain(len(text))
	return spans
}

// TokenizeWithError tokenizes a slice that contains a parse error at the
// given offset (relative to the slice). The offending character is emitted
// as a single ErrMarker span; the text before and after it is tokenized
// independently so the marker can never be swallowed or reclassified by the
// grammar. An offset outside the slice yields a plain Tokenize — the error
// is simply not on screen.
func TokenizeWithError(text string, errAt int) []Span {
	if errAt < 0 || errAt >= len(text) {
		return Tokenize(text)
	}
	spans := Tokenize(text[:errAt])
	spans = append(spans, Span{Text: text[errAt : errAt+1], Class: ErrMarker})
	return append(spans, Tokenize(text[errAt+1:])...)
}

// scanString returns the offset one past the closing quote of the string
// starting at i (text[i] must be '"'). An unterminated string runs to the
// end of the slice.
func scanString(text string, i int) int {
	j := i + 1
	for j < len(text) {
		switch text[j] {
		case '\\':
			j += 2
		case '"':
			return j + 1
		default:
			j++
		}
	}
	return len(text)
}

// isKey reports whether the next non-blank character after a string is a
// colon. Lookahead only; nothing is consumed.
func isKey(text string, after int) bool {
	for j := after; j < len(text); j++ {
		switch text[j] {
		case ' ', '\t':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

// hasLiteral reports whether the exact word lit starts at i, bounded on
// both sides so e.g. "nullify" or "xnull" is not classified as a literal.
func hasLiteral(text string, i int, lit string) bool {
	if i+len(lit) > len(text) || text[i:i+len(lit)] != lit {
		return false
	}
	if i > 0 && isWordByte(text[i-1]) {
		return false
	}
	if end := i + len(lit); end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func scanNumber(text string, i int) int {
	j := i
	if text[j] == '-' {
		j++
	}
	for j < len(text) && isDigit(text[j]) {
		j++
	}
	if j < len(text) && text[j] == '.' && j+1 < len(text) && isDigit(text[j+1]) {
		j++
		for j < len(text) && isDigit(text[j]) {
			j++
		}
	}
	if j < len(text) && (text[j] == 'e' || text[j] == 'E') {
		k := j + 1
		if k < len(text) && (text[k] == '+' || text[k] == '-') {
			k++
		}
		if k < len(text) && isDigit(text[k]) {
			for k < len(text) && isDigit(text[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}
