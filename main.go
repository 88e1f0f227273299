// main.go - entry point for halidetraceviz
//
// Reads Halide binary tracing packets from stdin, and writes raw RGBA32
// video frames to stdout. The overall shape (parse args, wire up the
// subsystems, run a loop, report a summary to stderr) follows the
// teacher's own main.go; the subsystems themselves are this tool's five
// components (packet.go, registry.go, pipeline.go, clock.go,
// compositor.go).

package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/time/rate"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(argv []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	diag := newDiagnostics(stderr)

	cfg, err := parseArgs(argv)
	if err != nil {
		diag.Printf("%v\n", err)
		usage()
		return -1
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		diag.Printf("halidetraceviz: frame dimensions must be positive\n")
		usage()
		return -1
	}

	registry := NewFuncRegistry(diag)
	for _, fc := range cfg.Funcs {
		fc.Dump(diag)
		registry.Register(fc)
	}

	var pace *rate.Limiter
	if cfg.PaceFPS > 0 {
		pace = rate.NewLimiter(rate.Limit(cfg.PaceFPS), 1)
	}

	var metrics *metricsServer
	if cfg.MetricsAddr != "" {
		metrics = newMetricsServer(cfg.MetricsAddr)
		go func() {
			if err := metrics.Serve(); err != nil {
				diag.Printf("halidetraceviz: metrics server: %v\n", err)
			}
		}()
		defer metrics.Shutdown(context.Background())
	}

	glyphs := NewGlyphTable()
	compositor := NewCompositor(cfg.Width, cfg.Height, cfg.DecayFactor, glyphs)
	tracker := NewPipelineTracker()
	pump := NewFramePump(cfg.Timestep, cfg.HoldFrames, pace)
	progress := newProgressReporter(stderr, isTerminal(stderr))

	handler := &eventHandler{
		registry:   registry,
		tracker:    tracker,
		compositor: compositor,
		diag:       diag,
		metrics:    metrics,
		progress:   progress,
		timestep:   cfg.Timestep,
	}

	source := func() (*Packet, error) { return ReadPacket(stdin, diag) }

	if err := pump.Run(context.Background(), source, handler, compositor, stdout); err != nil {
		diag.Printf("halidetraceviz: %v\n", err)
		return -1
	}

	progress.Done()
	registry.Report(diag)
	return 0
}

// eventHandler dispatches decoded packets to the Func Registry, Pipeline
// Tracker and Compositor, replicating the original tool's big event
// switch (spec.md §4).
type eventHandler struct {
	registry   *FuncRegistry
	tracker    *PipelineTracker
	compositor *Compositor
	diag       *diagnostics
	metrics    *metricsServer
	progress   *progressReporter
	timestep   uint64
}

func (h *eventHandler) Handle(p *Packet, packetIdx uint64, pump *FramePump) error {
	if h.metrics != nil {
		h.metrics.packets.Inc()
	}
	h.progress.Update(packetIdx, pump.FramesEmitted, false)

	switch p.Event {
	case eventBeginPipeline:
		h.tracker.BeginPipeline(p.ID, p.NameString())
		return nil
	case eventEndPipeline:
		h.tracker.EndPipeline(p.ID)
		return nil
	}

	pipeline := h.tracker.Resolve(p.Parent)
	cfg, stats, ok := h.registry.Resolve(pipeline.Name, p.NameString(), packetIdx, pump.HalideClock)

	switch p.Event {
	case eventLoad, eventStore:
		if ok {
			if p.Event == eventLoad {
				stats.observeLoad(p, h.diag)
			}
			h.compositor.PaintLabels(cfg, stats, pump.HalideClock, h.timestep)
			h.compositor.PaintEvent(cfg, p, pipeline, h.diag)
			if p.Event == eventStore {
				// valueBytes()/(bits/8) always reduces to Width, since
				// bytesPerElem(bits) == bits/8 for every bit width the
				// codec accepts (spec.md §6).
				pump.AdvanceStore(cfg.Cost, int(p.Width))
				stats.observeStore(p, h.diag)
			}
		} else if h.metrics != nil {
			h.metrics.skipped.Inc()
		}

	case eventBeginRealization:
		if ok {
			stats.NumRealizations++
		}
		h.tracker.Inherit(p.ID, p.Parent)

	case eventEndRealization:
		if ok {
			h.compositor.BlankRealization(cfg, p, h.diag)
		}
		h.tracker.EndScope(p.Parent)

	case eventProduce:
		if ok {
			stats.NumProductions++
		}
		h.tracker.Inherit(p.ID, p.Parent)

	case eventUpdate:
		// No visual or scheduling effect beyond the shared Resolve above.

	case eventConsume:
		// Consume scopes are not registered in the Pipeline Tracker: any
		// loads/stores nested inside fall back to the unqualified Func
		// name lookup, matching the original tool.

	case eventEndConsume:
		h.tracker.EndScope(p.Parent)

	default:
		h.diag.Printf("Unknown tracing event code: %d\n", p.Event)
	}

	if h.metrics != nil {
		h.metrics.frames.Set(float64(pump.FramesEmitted))
	}
	return nil
}
