package main

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestMetricsServerCounterUpdatesThenShutdownWithoutServe(t *testing.T) {
	m := newMetricsServer("127.0.0.1:0")
	m.packets.Inc()
	m.frames.Set(3)
	m.skipped.Inc()

	// newMetricsServer binds the listener lazily inside ListenAndServe, so
	// exercise the counters directly rather than spinning up the HTTP
	// server on a fixed port in a unit test.
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("Shutdown on a never-started server: %v", err)
	}
}

func TestMetricsServerShutdownWithoutServe(t *testing.T) {
	m := newMetricsServer("127.0.0.1:0")
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
