// clock.go - Virtual Clock & Frame Pump for halidetraceviz
//
// halide_clock counts Halide computation cost; video_clock counts how
// much of that cost has already been covered by emitted frames. This
// mirrors the teacher's own coarse scheduling style (see
// video_compositor.go's fixed-rate refreshLoop), but the clock here is
// driven by trace events rather than a wall-clock ticker, per spec.md
// §4.4 and §5.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// frameSink produces one composited frame and decays its transient
// layer. Implemented by *Compositor.
type frameSink interface {
	Render() []byte
	Decay()
}

// packetHandler processes one decoded packet, advancing the clock for
// store events via pump.AdvanceStore. It returns a non-nil error only
// for a structural protocol violation (spec.md §7 ProtocolError), which
// terminates the event loop.
type packetHandler interface {
	Handle(pkt *Packet, packetIdx uint64, pump *FramePump) error
}

// FramePump owns the halide/video clock pair and the end-of-stream hold
// countdown described in spec.md §4.4.
type FramePump struct {
	Timestep      uint64
	HoldFrames    uint64
	HalideClock   uint64
	VideoClock    uint64
	FramesEmitted uint64

	pace *rate.Limiter
}

// NewFramePump constructs a pump with the given timestep (Halide-clock
// units per video frame) and hold-frame count. pace, if non-nil, is an
// optional rate limiter applied to frame writes (the -pace ambient
// addition from SPEC_FULL.md §3); nil means unlimited.
func NewFramePump(timestep, holdFrames uint64, pace *rate.Limiter) *FramePump {
	return &FramePump{Timestep: timestep, HoldFrames: holdFrames, pace: pace}
}

// AdvanceStore advances the halide clock by cost*valueCount, per spec.md
// §4.4: "halide_clock (incremented per store by cost * value_count)".
// Loads do not advance the clock.
func (p *FramePump) AdvanceStore(cost int32, valueCount int) {
	if cost < 0 {
		cost = 0
	}
	p.HalideClock += uint64(cost) * uint64(valueCount)
}

// drain emits every frame whose time has come: while halide_clock >=
// video_clock, composite, write, advance video_clock, decay.
func (p *FramePump) drain(ctx context.Context, sink frameSink, out io.Writer) error {
	for p.HalideClock >= p.VideoClock {
		if p.pace != nil {
			if err := p.pace.Wait(ctx); err != nil {
				return err
			}
		}
		frame := sink.Render()
		n, err := out.Write(frame)
		if err != nil || n != len(frame) {
			return fmt.Errorf("halidetraceviz: could not write frame to stdout: %w", err)
		}
		p.VideoClock += p.Timestep
		sink.Decay()
		p.FramesEmitted++
	}
	return nil
}

// Run decodes packets from next until it returns io.EOF, dispatching
// each to handler and draining ready frames before every packet read (so
// every store's cost is visible to the compositor before the frame that
// might depict it is emitted), exactly as spec.md §4.4's ordering
// guarantee requires. After EOF it advances the halide clock by
// Timestep once per outer iteration and drains after every bump but the
// HoldFrames-th, at which it returns nil. With the frame drained at
// halide_clock == 0, a HoldFrames of one or more thus emits
// floor(total_cost/Timestep) + HoldFrames frames in all.
//
// A HoldFrames of zero means "no extra hold frames": the pump drains
// whatever is already pending and returns as soon as EOF is observed,
// rather than entering the bump loop at all (the literal C translation
// of "advance once per outer iteration, stop when the counter equals
// hold_frames" never re-equals zero once it starts counting up from one,
// which would hang forever for -h 0; see DESIGN.md).
func (p *FramePump) Run(ctx context.Context, next func() (*Packet, error), handler packetHandler, sink frameSink, out io.Writer) error {
	var packetIdx uint64
	holdElapsed := uint64(0)
	inHold := false

	for {
		if inHold {
			p.HalideClock += p.Timestep
			holdElapsed++
			if holdElapsed == p.HoldFrames {
				return nil
			}
		}

		if err := p.drain(ctx, sink, out); err != nil {
			return err
		}

		pkt, err := next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if p.HoldFrames == 0 {
					return nil
				}
				inHold = true
				continue
			}
			return err
		}

		packetIdx++
		if err := handler.Handle(pkt, packetIdx, p); err != nil {
			return err
		}
	}
}
