// Package viewport computes which lines of a document must be materialized
// for display. All functions are pure; the cost of a render is bounded by
// the container size, never by the document size.
package viewport

// Margin is the fixed overscan applied on both sides of the visible range.
// A few extra rendered lines buy smoothness during fast scrolling.
const Margin = 5

// Range is an inclusive span of line indices.
type Range struct {
	First, Last int
}

// Len returns the number of lines in the range.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains reports whether line falls inside the range.
func (r Range) Contains(line int) bool {
	return line >= r.First && line <= r.Last
}

// Visible returns the inclusive range of lines to materialize for the given
// scroll offset, container extent, and per-line height (all in the same
// unit; a terminal host passes lineHeight=1 with offsets in rows).
func Visible(scrollOff, extent, lineHeight, lineCount int) Range {
	if lineCount <= 0 || lineHeight <= 0 || extent <= 0 {
		return Range{First: 0, Last: -1}
	}
	start := scrollOff / lineHeight
	visible := (extent + lineHeight - 1) / lineHeight

	first := start - Margin
	if first < 0 {
		first = 0
	}
	last := start + visible + Margin
	if last > lineCount-1 {
		last = lineCount - 1
	}
	if first > last {
		first = last
	}
	return Range{First: first, Last: last}
}

// CenterOn returns the scroll offset that places line in the middle of the
// container, clamped so the window never runs past either end.
func CenterOn(line, extent, lineHeight, lineCount int) int {
	if lineCount <= 0 || lineHeight <= 0 {
		return 0
	}
	visible := extent / lineHeight
	if visible < 1 {
		visible = 1
	}
	top := line - visible/2
	maxTop := lineCount - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top * lineHeight
}
