package lbm

import (
	"sync/atomic"
	"time"
)

// FieldSnapshot is an immutable copy of the macroscopic fields published
// after a step, the only state the rendering and API collaborators consume.
// The planes are row-major Width*Height slices; Kinds is shared read-only
// with the simulation (topology is frozen once the engine runs).
type FieldSnapshot struct {
	Sequence  uint64
	Timestamp time.Time
	Step      uint64

	Width, Height int
	Density       []float64
	VelocityX     []float64
	VelocityY     []float64
	Speed         []float64
	Vorticity     []float64
	Kinds         []CellKind

	// Aggregate stats.
	TotalMass    float64
	MaxSpeed     float64
	StepDuration time.Duration

	// Unstable is set once a step surfaced ErrUnstable; Err carries the
	// message. The engine stops stepping at that point.
	Unstable bool
	Err      string
}

// SnapshotPool hands the single producer (the engine tick) a fresh
// snapshot per publish and exposes the latest published one through an
// atomic pointer. Published snapshots are never written again, so a reader
// may hold one for as long as it likes (a slow PNG encoder, a stalled
// client) without ever observing a mix of two steps; the garbage collector
// reclaims snapshots once the last holder drops them.
type SnapshotPool struct {
	width, height int

	pending  *FieldSnapshot // producer only
	latest   atomic.Pointer[FieldSnapshot]
	sequence atomic.Uint64
}

// NewSnapshotPool prepares publication for a w x h lattice. An empty
// zero-sequence snapshot is pre-published so readers never see nil.
func NewSnapshotPool(w, h int) *SnapshotPool {
	p := &SnapshotPool{width: w, height: h}
	p.latest.Store(p.newSnapshot())
	return p
}

func (p *SnapshotPool) newSnapshot() *FieldSnapshot {
	n := p.width * p.height
	return &FieldSnapshot{
		Width:     p.width,
		Height:    p.height,
		Density:   make([]float64, n),
		VelocityX: make([]float64, n),
		VelocityY: make([]float64, n),
		Speed:     make([]float64, n),
		Vorticity: make([]float64, n),
	}
}

// AcquireWrite returns a fresh snapshot to fill. Producer only.
func (p *SnapshotPool) AcquireWrite() *FieldSnapshot {
	snap := p.newSnapshot()
	snap.Sequence = p.sequence.Add(1)
	snap.Timestamp = time.Now()
	p.pending = snap
	return snap
}

// PublishWrite makes the snapshot returned by AcquireWrite visible to
// readers. The snapshot must not be written after this call.
func (p *SnapshotPool) PublishWrite() {
	p.latest.Store(p.pending)
	p.pending = nil
}

// AcquireRead returns the latest published snapshot.
func (p *SnapshotPool) AcquireRead() *FieldSnapshot {
	return p.latest.Load()
}
