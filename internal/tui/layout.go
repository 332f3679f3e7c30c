package tui

import "image"

const statusRows = 2 // separator + status bar

// layout holds the screen rectangles for the current frame.
type layout struct {
	editor  image.Rectangle
	divider image.Rectangle
	preview image.Rectangle
}

// generateLayout splits the screen. Without the preview the editor takes the
// full content area; with it the panes share the width around a one-column
// divider.
func generateLayout(width, height int, preview bool) layout {
	contentH := height - statusRows
	if contentH < 0 {
		contentH = 0
	}
	if !preview {
		return layout{editor: image.Rect(0, 0, width, contentH)}
	}
	half := width / 2
	return layout{
		editor:  image.Rect(0, 0, half, contentH),
		divider: image.Rect(half, 0, half+1, contentH),
		preview: image.Rect(half+1, 0, width, contentH),
	}
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}
