// Package progress renders combine events as a terminal progress bar.
package progress

import (
	"io"
	"os"
	"sync"

	"filefusion/pkg/combine"

	"github.com/schollz/progressbar/v2"
	"golang.org/x/term"
)

// Counts tallies task outcomes.
type Counts struct {
	Accepted int
	Rejected int
	Errored  int
}

// Reporter consumes combine events. The bar is created on the first event,
// once the number of discovered files is known.
type Reporter struct {
	mu     sync.Mutex
	w      io.Writer
	bar    *progressbar.ProgressBar
	counts Counts
	render bool
}

// New returns a reporter drawing to w. When render is false only counts are kept.
func New(w io.Writer, render bool) *Reporter {
	return &Reporter{w: w, render: render}
}

// Interactive reports whether f is a terminal worth drawing a bar on.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Observe records one event. It is safe for concurrent use and matches combine.ProgressFunc.
func (r *Reporter) Observe(ev combine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Outcome {
	case combine.OutcomeAccepted:
		r.counts.Accepted++
	case combine.OutcomeRejected:
		r.counts.Rejected++
	default:
		r.counts.Errored++
	}

	if !r.render {
		return
	}
	if r.bar == nil {
		r.bar = progressbar.NewOptions(ev.Total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetWidth(40),
		)
	}
	_ = r.bar.Add(1)
}

// Finish completes the bar, if one was drawn.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		_ = r.bar.Finish()
		io.WriteString(r.w, "\n")
	}
}

// Counts returns the tallies so far.
func (r *Reporter) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts
}
