// Package jsontext wraps the strict JSON operations the viewer needs:
// validation with byte-offset diagnostics, canonical formatting that keeps
// key insertion order, and an order-preserving YAML rendering.
package jsontext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SyntaxError reports a failed parse. Offset is the 0-based byte index of
// the offending character, or -1 when the parser's diagnostic carries no
// usable position (e.g. empty input).
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (at offset %d)", e.Msg, e.Offset)
}

// Validate attempts a strict parse of text. It returns nil on success, and
// a SyntaxError with a best-effort offset extracted from the parser's own
// diagnostic on failure.
func Validate(text string) *SyntaxError {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err == nil {
		return nil
	}
	return toSyntaxError(err)
}

func toSyntaxError(err error) *SyntaxError {
	switch e := err.(type) {
	case *json.SyntaxError:
		// encoding/json reports the count of bytes read when the error was
		// hit; the offending byte sits one before that.
		return &SyntaxError{Offset: clampOffset(int(e.Offset) - 1), Msg: e.Error()}
	case *json.UnmarshalTypeError:
		return &SyntaxError{Offset: clampOffset(int(e.Offset) - 1), Msg: e.Error()}
	default:
		return &SyntaxError{Offset: -1, Msg: err.Error()}
	}
}

func clampOffset(off int) int {
	if off < 0 {
		return -1
	}
	return off
}

// Parse decodes text into a generic value.
func Parse(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, toSyntaxError(err)
	}
	return v, nil
}

// Format re-serializes text with canonical 2-space indentation. Key order is
// preserved because the source is re-laid-out token by token, never decoded
// into a map. The input is returned unchanged inside the error case.
func Format(text string) (string, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(text)); err != nil {
		return "", toSyntaxError(err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return "", toSyntaxError(err)
	}
	return out.String(), nil
}

// ToYAML renders a valid JSON document as YAML. The document is decoded into
// a yaml.Node tree rather than a map, which keeps key order intact (YAML is
// a superset of JSON, so the JSON source parses directly).
func ToYAML(text string) (string, error) {
	if serr := Validate(text); serr != nil {
		return "", serr
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return "", fmt.Errorf("yaml convert: %w", err)
	}
	if len(node.Content) == 0 {
		return "", nil
	}
	out, err := yaml.Marshal(node.Content[0])
	if err != nil {
		return "", fmt.Errorf("yaml convert: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
