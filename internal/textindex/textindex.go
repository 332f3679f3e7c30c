// Package textindex maintains an ordered index of line-start offsets for a
// text buffer. The index is rebuilt wholesale for every validated document
// version — a linear rescan is cheap relative to highlighting and far less
// failure-prone than patching offsets after arbitrary edits.
package textindex

import (
	"sort"
	"strings"
)

// Index holds line-start offsets for one snapshot of a document. Entry i is
// the offset at which line i begins; the final entry is a sentinel equal to
// len(text)+1. Offsets are strictly increasing and offsets[0] is always 0.
// An Index is immutable after Scan and safe to share across goroutines.
type Index struct {
	offsets []uint32
}

// Scan builds the complete index for text in a single linear pass.
// Empty text still yields two entries: {0, 1}.
func Scan(text string) Index {
	seed := len(text) / 40
	if seed < 1000 {
		seed = 1000
	}
	offsets := make([]uint32, 0, seed)
	offsets = append(offsets, 0)

	pos := 0
	for {
		nl := strings.IndexByte(text[pos:], '\n')
		if nl < 0 {
			break
		}
		pos += nl + 1
		offsets = append(offsets, uint32(pos))
	}
	offsets = append(offsets, uint32(len(text)+1)) // sentinel

	// Trim to exact used length; the seed capacity over-allocates for
	// documents with long average lines.
	trimmed := make([]uint32, len(offsets))
	copy(trimmed, offsets)
	return Index{offsets: trimmed}
}

// Count returns the number of entries including the sentinel. Always >= 2
// for a scanned index.
func (ix Index) Count() int { return len(ix.offsets) }

// Lines returns the number of lines the indexed text had.
func (ix Index) Lines() int {
	if len(ix.offsets) < 2 {
		return 0
	}
	return len(ix.offsets) - 1
}

// Offsets exposes the raw offset slice, sentinel included. Callers must not
// mutate it.
func (ix Index) Offsets() []uint32 { return ix.offsets }

// Start returns the offset at which line i begins.
func (ix Index) Start(i int) int { return int(ix.offsets[i]) }

// End returns the offset one past the last content character of line i,
// excluding the terminator. For the final line this equals the text length.
func (ix Index) End(i int) int { return int(ix.offsets[i+1]) - 1 }

// LineFor returns the line containing the given offset, via binary search.
// Offsets past the end of the text map to the last line; negative offsets
// map to line 0.
func (ix Index) LineFor(offset int) int {
	n := ix.Lines()
	if n <= 0 || offset <= 0 {
		return 0
	}
	// First line whose successor starts beyond the offset.
	line := sort.Search(n, func(i int) bool {
		return int(ix.offsets[i+1]) > offset
	})
	if line >= n {
		line = n - 1
	}
	return line
}

// SliceLine extracts line i from text, clamping bounds to len(text). The
// clamp matters when the index is stale relative to an edited buffer: the
// caller renders a best-effort window until the next scan lands.
func (ix Index) SliceLine(text string, i int) string {
	if i < 0 || i >= ix.Lines() {
		return ""
	}
	start := ix.Start(i)
	end := ix.End(i)
	if start > len(text) {
		return ""
	}
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		end = start
	}
	return text[start:end]
}
