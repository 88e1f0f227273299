// progress.go - stderr progress reporter for halidetraceviz
//
// Optional ambient addition (SPEC_FULL.md §3): a single overwritten
// status line reporting packets and frames processed so far, shown only
// when stderr is a terminal. Uses golang.org/x/term the way plexTuner's
// CLI tooling checks terminal capability before emitting control codes,
// rather than always emitting carriage returns into a redirected file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// progressReporter prints a rate-limited, single-line status update to
// an io.Writer backed by a terminal. It is a no-op sink when the
// underlying writer is not a terminal (e.g. stderr redirected to a file)
// so that piped output stays clean.
type progressReporter struct {
	w        io.Writer
	isTerm   bool
	interval time.Duration
	last     time.Time
}

// newProgressReporter builds a reporter over w. isTerminal should be the
// result of term.IsTerminal on w's file descriptor when w is an *os.File.
func newProgressReporter(w io.Writer, isTerminal bool) *progressReporter {
	return &progressReporter{w: w, isTerm: isTerminal, interval: 200 * time.Millisecond}
}

// isTerminal reports whether w is a terminal, via term.IsTerminal when w
// is backed by an *os.File (e.g. os.Stderr); any other io.Writer (a
// bytes.Buffer in tests, a piped file) is never a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Update reports current progress, at most once per interval, unless
// force is set, which bypasses the interval.
func (p *progressReporter) Update(packetIdx, framesEmitted uint64, force bool) {
	if !p.isTerm {
		return
	}
	now := time.Now()
	if !force && !p.last.IsZero() && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	fmt.Fprintf(p.w, "\rpackets: %d  frames: %d", packetIdx, framesEmitted)
}

// Done clears the status line, leaving the cursor at column zero.
func (p *progressReporter) Done() {
	if !p.isTerm {
		return
	}
	fmt.Fprint(p.w, "\r\033[K")
}
