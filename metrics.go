// metrics.go - optional Prometheus metrics endpoint for halidetraceviz
//
// Adopted from snapetech-plexTuner's go.mod (prometheus/client_golang):
// an optional -metrics-addr flag starts an HTTP server exposing packet
// and frame counters, off by default so the tool's stdout/stderr
// contract (spec.md §6) is unaffected unless explicitly requested.

package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsServer exposes /metrics over HTTP for as long as the process
// runs; it never touches stdin/stdout, so enabling it cannot corrupt the
// emitted video stream.
type metricsServer struct {
	packets prometheus.Counter
	frames  prometheus.Gauge
	skipped prometheus.Counter
	srv     *http.Server
}

func newMetricsServer(addr string) *metricsServer {
	reg := prometheus.NewRegistry()
	m := &metricsServer{
		packets: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "halidetraceviz_packets_total",
			Help: "Tracing packets decoded from stdin.",
		}),
		frames: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "halidetraceviz_frames_emitted",
			Help: "Video frames written to stdout so far.",
		}),
		skipped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "halidetraceviz_packets_skipped_total",
			Help: "Packets referencing an unregistered Func.",
		}),
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	m.srv = &http.Server{Addr: addr, Handler: mux}
	return m
}

// Serve starts the HTTP server and blocks until it stops; callers should
// invoke it in its own goroutine. http.ErrServerClosed is swallowed.
func (m *metricsServer) Serve() error {
	if err := m.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (m *metricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
