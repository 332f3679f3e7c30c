package editor

import "github.com/xonecas/jview/internal/scan"

// debounceMsg fires when the input debounce window closes. It carries the
// version at which the timer was armed; a tick whose version no longer
// matches the document was superseded by a later edit and is ignored.
type debounceMsg struct {
	version uint64
}

// resultMsg delivers a completed worker computation.
type resultMsg struct {
	res scan.Result
}
