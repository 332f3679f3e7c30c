// Package scan runs line indexing and validation off the interactive
// thread. One worker goroutine serves one editing surface; requests and
// responses carry the document version so the controller can drop results
// that a newer edit has superseded.
package scan

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/jview/internal/jsontext"
	"github.com/xonecas/jview/internal/textindex"
)

// Action selects what the worker computes for a request.
type Action string

const (
	// ActionScan rebuilds the line index and validates, in one pass over
	// the snapshot — indexing alone is never worth a second buffer copy.
	ActionScan Action = "scan"
	// ActionFormat re-serializes the document with canonical indentation.
	ActionFormat Action = "format"
	// ActionStringify renders the document as YAML.
	ActionStringify Action = "stringify"
)

// Request is a snapshot of the document at a specific version. The worker
// never sees the live buffer; Text is an immutable copy.
type Request struct {
	Text    string
	Version uint64
	Action  Action
}

// Result echoes the request's version and action. Index and Err are set for
// ActionScan; Text carries the output of ActionFormat and ActionStringify.
// A Result whose Version no longer matches the controller's current version
// must be discarded whole — never merged, never partially applied.
type Result struct {
	Version uint64
	Action  Action
	Index   textindex.Index
	Err     *jsontext.SyntaxError
	Text    string
}

// Worker is the background compute unit. Exactly one computation runs at a
// time; a request submitted while another is pending (not yet started)
// replaces it, since only the latest version is ever wanted. In-flight
// computations are not cancelled — their results are cheap to discard.
type Worker struct {
	requests chan Request
	results  chan Result
	done     chan struct{}
	closing  sync.Once
}

// NewWorker starts the worker goroutine.
func NewWorker() *Worker {
	w := &Worker{
		requests: make(chan Request, 1),
		results:  make(chan Result, 4),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit hands a snapshot to the worker. Never blocks on a busy worker: an
// undelivered older request is dropped in favor of this one.
func (w *Worker) Submit(req Request) {
	for {
		select {
		case <-w.done:
			return
		case w.requests <- req:
			return
		default:
		}
		select {
		case stale := <-w.requests:
			log.Debug().
				Uint64("stale", stale.Version).
				Uint64("version", req.Version).
				Msg("scan: superseded queued request")
		default:
		}
	}
}

// Results delivers completed computations. The channel is never closed;
// receivers should also watch Done.
func (w *Worker) Results() <-chan Result { return w.results }

// Done is closed when the worker shuts down.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Close stops the worker. Safe to call more than once. A computation in
// flight finishes but its result may be dropped.
func (w *Worker) Close() {
	w.closing.Do(func() { close(w.done) })
}

func (w *Worker) loop() {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			res := run(req)
			select {
			case w.results <- res:
			case <-w.done:
				return
			}
		}
	}
}

func run(req Request) Result {
	res := Result{Version: req.Version, Action: req.Action}

	switch req.Action {
	case ActionFormat:
		out, err := jsontext.Format(req.Text)
		if err != nil {
			res.Err = asSyntaxError(err)
			return res
		}
		res.Text = out

	case ActionStringify:
		out, err := jsontext.ToYAML(req.Text)
		if err != nil {
			res.Err = asSyntaxError(err)
			return res
		}
		res.Text = out

	default: // ActionScan
		res.Index = textindex.Scan(req.Text)
		res.Err = jsontext.Validate(req.Text)
	}
	return res
}

func asSyntaxError(err error) *jsontext.SyntaxError {
	if serr, ok := err.(*jsontext.SyntaxError); ok {
		return serr
	}
	return &jsontext.SyntaxError{Offset: -1, Msg: err.Error()}
}
