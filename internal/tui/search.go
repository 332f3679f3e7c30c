package tui

import (
	"strings"

	"github.com/xonecas/jview/internal/tui/editor"
)

// findMatches returns the byte offset of every occurrence of query, scanning
// the whole document. Matching is case-insensitive when the query is all
// lowercase, exact otherwise.
func findMatches(doc, query string) []int {
	if query == "" {
		return nil
	}
	haystack := doc
	if query == strings.ToLower(query) {
		haystack = strings.ToLower(doc)
	}
	var offs []int
	for from := 0; ; {
		i := strings.Index(haystack[from:], query)
		if i < 0 {
			return offs
		}
		offs = append(offs, from+i)
		from += i + len(query)
	}
}

// searchRanges decorates every match, marking the current one.
func searchRanges(matches []int, queryLen, current int) []editor.SearchRange {
	ranges := make([]editor.SearchRange, len(matches))
	for i, off := range matches {
		ranges[i] = editor.SearchRange{
			Start:     off,
			End:       off + queryLen,
			IsCurrent: i == current,
		}
	}
	return ranges
}

// nearestMatch picks the first match at or after the given offset, wrapping
// to the first match overall.
func nearestMatch(matches []int, offset int) int {
	for i, off := range matches {
		if off >= offset {
			return i
		}
	}
	return 0
}
