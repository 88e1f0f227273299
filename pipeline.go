// pipeline.go - Pipeline Tracker for halidetraceviz
//
// Maintains the mapping from packet id to the enclosing pipeline
// context, driven by begin/end pipeline, realization, produce and
// consume events. A single map is the entire state, in the style of
// the teacher's MachineBus address-to-handler map (machine_bus.go).

package main

// PipelineInfo identifies the pipeline a packet id is scoped to.
type PipelineInfo struct {
	Name string
	ID   uint32
}

// PipelineTracker resolves a packet's Parent field to the PipelineInfo
// of the enclosing pipeline.
type PipelineTracker struct {
	byID map[uint32]PipelineInfo
}

func NewPipelineTracker() *PipelineTracker {
	return &PipelineTracker{byID: make(map[uint32]PipelineInfo)}
}

// BeginPipeline registers a new pipeline scope rooted at id.
func (t *PipelineTracker) BeginPipeline(id uint32, name string) {
	t.byID[id] = PipelineInfo{Name: name, ID: id}
}

// EndPipeline closes the pipeline scope rooted at id. An orphaned end
// (no matching begin) is tolerated silently, per spec.md §3 invariants.
func (t *PipelineTracker) EndPipeline(id uint32) {
	delete(t.byID, id)
}

// Resolve returns the PipelineInfo that parent is nested within. An
// unknown parent yields a zero-value PipelineInfo (empty name), matching
// the original tool's default-constructed map lookup.
func (t *PipelineTracker) Resolve(parent uint32) PipelineInfo {
	return t.byID[parent]
}

// Inherit registers id as a nested scope (realization or production)
// within whatever pipeline parent currently resolves to, so that events
// whose Parent is id can themselves resolve to the same pipeline.
func (t *PipelineTracker) Inherit(id, parent uint32) PipelineInfo {
	info := t.Resolve(parent)
	t.byID[id] = info
	return info
}

// EndScope closes a realization or consume scope keyed by parent (the
// scope's own id, from the tracker's point of view of the begin event
// that created it). Orphaned ends are tolerated silently.
func (t *PipelineTracker) EndScope(id uint32) {
	delete(t.byID, id)
}
