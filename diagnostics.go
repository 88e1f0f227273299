// diagnostics.go - stderr diagnostic stream with once-only warnings
//
// The teacher has no logging library anywhere in its tree; every
// diagnostic in video_compositor.go and main.go goes straight to
// fmt.Fprintf(os.Stderr, ...) or fmt.Printf. This keeps that convention:
// diagnostics are plain formatted text, not structured log records.

package main

import (
	"fmt"
	"io"
	"sync"
)

// diagnostics writes free-form diagnostic text to an underlying writer
// and tracks which "once" keys have already been emitted, so that a
// packet stream containing thousands of loads/stores referencing the
// same unknown Func doesn't flood stderr.
type diagnostics struct {
	w    io.Writer
	mu   sync.Mutex
	seen map[string]bool
}

func newDiagnostics(w io.Writer) *diagnostics {
	return &diagnostics{w: w, seen: make(map[string]bool)}
}

func (d *diagnostics) Printf(format string, args ...any) {
	fmt.Fprintf(d.w, format, args...)
}

// warnOnce emits the formatted message the first time it is called with
// a given key, and is silent on subsequent calls with the same key.
func (d *diagnostics) warnOnce(key, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	fmt.Fprintf(d.w, format, args...)
}
