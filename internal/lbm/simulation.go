package lbm

import (
	"fmt"
	"math"
	"runtime"
)

// MaxWorkers caps the sweep parallelism; beyond this the row bands are too
// small to pay for the goroutine fan-out.
const MaxWorkers = 16

// boundaryCell is a precomputed entry of the boundary handler's work list.
type boundaryCell struct {
	x, y int
	kind CellKind
}

// Simulation owns the lattice buffers and the relaxation parameter and
// advances them one discrete time unit per Step. It is not safe for
// concurrent use; the driver serializes steps and readers consume published
// snapshots instead of holding buffer references across a swap.
type Simulation struct {
	lat     *Lattice
	tau     float64
	omega   float64
	bc      BoundaryConfig
	workers int

	steps   uint64
	started bool

	// Work list for the boundary sweep, frozen on the first step.
	boundary []boundaryCell

	// Inlet equilibrium, computed once from the boundary config.
	inletEq [Q]float64
}

// New constructs a simulation of width x height cells with relaxation time
// tau and the given boundary topology. Construction fails fast on invalid
// dimensions or a relaxation rate outside (0, 2].
func New(width, height int, tau float64, bc BoundaryConfig) (*Simulation, error) {
	if tau <= 0 || math.IsNaN(tau) || math.IsInf(tau, 1) {
		return nil, fmt.Errorf("%w: tau = %g", ErrInvalidRelaxation, tau)
	}
	omega := 1 / tau
	if omega > 2 {
		return nil, fmt.Errorf("%w: omega = 1/tau = %g, want 0 < omega <= 2", ErrInvalidRelaxation, omega)
	}

	lat, err := NewLattice(width, height, bc)
	if err != nil {
		return nil, err
	}

	workers := runtime.NumCPU()
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	s := &Simulation{
		lat:     lat,
		tau:     tau,
		omega:   omega,
		bc:      bc,
		workers: workers,
	}
	Equilibrium(&s.inletEq, bc.InletDensity, bc.InletVelocityX, bc.InletVelocityY)
	return s, nil
}

// Width returns the number of cells along x.
func (s *Simulation) Width() int { return s.lat.Width() }

// Height returns the number of cells along y.
func (s *Simulation) Height() int { return s.lat.Height() }

// Tau returns the relaxation time.
func (s *Simulation) Tau() float64 { return s.tau }

// Omega returns the relaxation rate 1/tau.
func (s *Simulation) Omega() float64 { return s.omega }

// Steps returns the number of completed steps.
func (s *Simulation) Steps() uint64 { return s.steps }

// Kinds exposes the per-cell kind plane, row-major. Immutable once the
// simulation has stepped.
func (s *Simulation) Kinds() []CellKind { return s.lat.Kinds() }

// KindAt returns the kind of the cell at (x, y).
func (s *Simulation) KindAt(x, y int) (CellKind, error) {
	if !s.lat.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, s.lat.Width(), s.lat.Height())
	}
	return s.lat.Kind(x, y), nil
}

// SetWorkers overrides the sweep parallelism. Values below 1 force serial
// sweeps; the cap still applies.
func (s *Simulation) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	s.workers = n
}

// SetObstacle tags the cell at (x, y) as a wall. Obstacles may only be
// placed before the first step; topology is immutable while running.
func (s *Simulation) SetObstacle(x, y int) error {
	if s.started {
		return ErrTopologyFrozen
	}
	if !s.lat.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, s.lat.Width(), s.lat.Height())
	}
	s.lat.setKind(x, y, Wall)
	return nil
}

// AddObstacle tags every cell inside the shape as a wall.
func (s *Simulation) AddObstacle(shape Shape) error {
	if s.started {
		return ErrTopologyFrozen
	}
	for y := 0; y < s.lat.Height(); y++ {
		for x := 0; x < s.lat.Width(); x++ {
			if shape.Contains(float64(x), float64(y)) {
				s.lat.setKind(x, y, Wall)
			}
		}
	}
	return nil
}

// Step advances the simulation exactly one time unit: collide in place on
// the current buffer, stream into the next buffer, correct boundary cells
// in the next buffer, then swap. The sweeps run in this order with a full
// barrier between them; a step is never partially applied. The returned
// error reports numerical instability detected after the step completed —
// the state is left untouched for inspection and retrying cannot succeed.
func (s *Simulation) Step() error {
	if !s.started {
		s.freezeTopology()
	}

	s.collide()
	s.stream()
	s.applyBoundaries()
	s.lat.Swap()
	s.steps++

	return s.checkStability()
}

// freezeTopology builds the boundary work list and marks cell kinds final.
func (s *Simulation) freezeTopology() {
	s.started = true
	w, h := s.lat.Width(), s.lat.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if k := s.lat.Kind(x, y); k != Fluid {
				s.boundary = append(s.boundary, boundaryCell{x: x, y: y, kind: k})
			}
		}
	}
}

// checkStability scans the freshly swapped current buffer for NaN or
// negative distributions on non-wall cells. Wall cells keep their initial
// rest values and are skipped.
func (s *Simulation) checkStability() error {
	cur := s.lat.Current()
	w, h := s.lat.Width(), s.lat.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if s.lat.Kind(x, y) == Wall {
				continue
			}
			off := s.lat.cellOffset(x, y)
			for i := 0; i < Q; i++ {
				v := cur[off+i]
				if math.IsNaN(v) || v < 0 {
					return fmt.Errorf("%w: f[%d] = %g at cell (%d, %d) after step %d",
						ErrUnstable, i, v, x, y, s.steps)
				}
			}
		}
	}
	return nil
}
