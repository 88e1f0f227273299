// registry.go - Func Registry for halidetraceviz
//
// Owns per-Func rendering configuration (supplied via CLI, see cli.go)
// and the observed statistics gathered while the trace is replayed.
// Mirrors the teacher's preference for a plain map plus a handful of
// small value types (see machine_bus.go's MMIO region map in the
// original IntuitionEngine tree) rather than a generic container
// abstraction.

package main

import (
	"sort"
)

const maxDims = 16

// Label is a text annotation that fades in near a Func's first draw.
type Label struct {
	Text string
	X, Y int
	N    int // fade-in frame count
}

// FuncConfig is per-Func render configuration, immutable after CLI parse.
type FuncConfig struct {
	Name        string
	Min, Max    float64
	ColorDim    int32 // -1 = grayscale
	BlankOnEnd  bool
	Zoom        int32
	Cost        int32
	X, Y        int32
	Dims        int32
	XStride     [maxDims]int32
	YStride     [maxDims]int32
	Labels      []Label
}

// Dump writes the parsed configuration to the diagnostic stream, as the
// original tool's FuncInfo::dump did immediately after each -f flag.
func (c *FuncConfig) Dump(diag *diagnostics) {
	diag.Printf("Func %s:\n"+
		" min: %v max: %v\n"+
		" color_dim: %d\n"+
		" blank: %v\n"+
		" dims: %d\n"+
		" zoom: %d\n"+
		" cost: %d\n"+
		" x: %d y: %d\n",
		c.Name, c.Min, c.Max, c.ColorDim, c.BlankOnEnd, c.Dims, c.Zoom, c.Cost, c.X, c.Y)
	diag.Printf(" x_stride:")
	for d := int32(0); d < c.Dims; d++ {
		diag.Printf(" %d", c.XStride[d])
	}
	diag.Printf("\n y_stride:")
	for d := int32(0); d < c.Dims; d++ {
		diag.Printf(" %d", c.YStride[d])
	}
	diag.Printf("\n")
}

// FuncStats accumulates statistics observed while replaying the trace.
type FuncStats struct {
	QualifiedName   string
	FirstDrawTime   uint64
	FirstPacketIdx  uint64
	hasFirstDraw    bool
	hasFirstPacket  bool
	MinValue        float64
	MaxValue        float64
	MinCoord        [maxDims]int32
	MaxCoord        [maxDims]int32
	hasCoord        [maxDims]bool
	hasValue        bool
	NumRealizations uint32
	NumProductions  uint32
	Loads           uint64
	Stores          uint64
}

// observe updates coordinate and value bounds for a single load/store
// packet, following spec.md §4.2: for each int-arg dimension i in
// [0, min(16, num_int_args/width)) and each lane, track min/max coord
// seeded on first observation; for each lane, track min/max value.
func (s *FuncStats) observe(p *Packet, diag *diagnostics) {
	width := int(p.Width)
	if width == 0 {
		return
	}
	dims := int(p.NumIntArgs) / width
	if dims > maxDims {
		dims = maxDims
	}
	for i := 0; i < dims; i++ {
		for lane := 0; lane < width; lane++ {
			coord := p.GetIntArg(i*width + lane)
			if !s.hasCoord[i] {
				s.MinCoord[i] = coord
				s.MaxCoord[i] = coord + 1
				s.hasCoord[i] = true
			} else {
				if coord < s.MinCoord[i] {
					s.MinCoord[i] = coord
				}
				if coord+1 > s.MaxCoord[i] {
					s.MaxCoord[i] = coord + 1
				}
			}
		}
	}

	for lane := 0; lane < width; lane++ {
		v := p.GetValueAsF64(lane, diag)
		if !s.hasValue {
			s.MinValue = v
			s.MaxValue = v
			s.hasValue = true
		} else {
			if v < s.MinValue {
				s.MinValue = v
			}
			if v > s.MaxValue {
				s.MaxValue = v
			}
		}
	}
}

func (s *FuncStats) observeLoad(p *Packet, diag *diagnostics) {
	s.observe(p, diag)
	s.Loads += uint64(p.Width)
}

func (s *FuncStats) observeStore(p *Packet, diag *diagnostics) {
	s.observe(p, diag)
	s.Stores += uint64(p.Width)
}

// report writes a per-Func summary to the diagnostic stream, in the
// format of the original tool's FuncInfo::Stats::report.
func (s *FuncStats) report(diag *diagnostics) {
	diag.Printf("Func %s:\n bounds of domain: ", s.QualifiedName)
	first := true
	for i := 0; i < maxDims; i++ {
		if !s.hasCoord[i] {
			break
		}
		if !first {
			diag.Printf(" x ")
		}
		first = false
		diag.Printf("[%d, %d)", s.MinCoord[i], s.MaxCoord[i])
	}
	diag.Printf("\n range of values: [%v, %v]\n"+
		" number of realizations: %d\n"+
		" number of productions: %d\n"+
		" number of loads: %d\n"+
		" number of stores: %d\n",
		s.MinValue, s.MaxValue, s.NumRealizations, s.NumProductions, s.Loads, s.Stores)
}

// funcEntry pairs a Func's immutable config with its mutable stats.
type funcEntry struct {
	config *FuncConfig
	stats  *FuncStats
	seq    int // CLI registration order, used as a report tie-break
}

// FuncRegistry resolves trace event names (optionally pipeline-qualified)
// to Func configuration and statistics.
type FuncRegistry struct {
	byName map[string]*funcEntry
	seq    int
	diag   *diagnostics
}

func NewFuncRegistry(diag *diagnostics) *FuncRegistry {
	return &FuncRegistry{byName: make(map[string]*funcEntry), diag: diag}
}

// Register installs a Func's configuration, keyed by its (possibly
// pipeline-qualified) name, e.g. "foo" or "pipeline:foo".
func (r *FuncRegistry) Register(cfg *FuncConfig) {
	r.byName[cfg.Name] = &funcEntry{config: cfg, stats: &FuncStats{}, seq: r.seq}
	r.seq++
}

// resolve implements the lookup order from spec.md §4.2: (1) fully
// qualified "pipeline:func", (2) bare "func", (3) warn once and report
// a miss.
func (r *FuncRegistry) resolve(pipelineName, funcName string) (*funcEntry, string, bool) {
	qualified := pipelineName + ":" + funcName
	if e, ok := r.byName[qualified]; ok {
		return e, qualified, true
	}
	if e, ok := r.byName[funcName]; ok {
		return e, qualified, true
	}
	r.diag.warnOnce("lookup:"+qualified, "Warning: ignoring func %s\n", qualified)
	return nil, qualified, false
}

// Resolve looks up the Func addressed by an event's pipeline context and
// packet name, lazily initializing FuncStats.QualifiedName and the
// first-observation fields on the first resolved event. packetIdx is the
// 1-based index of the current packet in the stream, used to order the
// final report. halideClock is the current virtual clock value, used to
// seed FirstDrawTime.
func (r *FuncRegistry) Resolve(pipelineName, funcName string, packetIdx uint64, halideClock uint64) (*FuncConfig, *FuncStats, bool) {
	e, qualified, ok := r.resolve(pipelineName, funcName)
	if !ok {
		return nil, nil, false
	}
	if !e.stats.hasFirstPacket {
		e.stats.hasFirstPacket = true
		e.stats.FirstPacketIdx = packetIdx
		e.stats.QualifiedName = qualified
	}
	if !e.stats.hasFirstDraw {
		e.stats.hasFirstDraw = true
		e.stats.FirstDrawTime = halideClock
	}
	return e.config, e.stats, true
}

// Report prints every registered Func's statistics to the diagnostic
// stream, ordered by first_packet_idx ascending, stable on insertion
// order for Funcs that were never touched by the trace.
func (r *FuncRegistry) Report(diag *diagnostics) {
	diag.Printf("Total number of Funcs: %d\n", len(r.byName))

	type kv struct {
		name  string
		entry *funcEntry
	}
	all := make([]kv, 0, len(r.byName))
	for name, e := range r.byName {
		all = append(all, kv{name, e})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].entry.stats.FirstPacketIdx != all[j].entry.stats.FirstPacketIdx {
			return all[i].entry.stats.FirstPacketIdx < all[j].entry.stats.FirstPacketIdx
		}
		return all[i].entry.seq < all[j].entry.seq
	})
	for _, item := range all {
		stats := item.entry.stats
		if stats.QualifiedName == "" {
			stats.QualifiedName = item.name
		}
		stats.report(diag)
	}
}
