package lbm

import "fmt"

// CellKind tags a lattice cell. Kinds are fixed at construction; only the
// boundary handler branches on them, so a plain enum beats any dispatch on
// the hot per-cell loops.
type CellKind uint8

const (
	// Fluid cells collide and stream normally.
	Fluid CellKind = iota
	// Wall cells are rigid no-slip boundaries handled by bounce-back.
	Wall
	// Inlet cells are forced to a prescribed equilibrium after each stream.
	Inlet
	// Outlet cells copy their adjacent interior cell (zero-gradient).
	Outlet
)

func (k CellKind) String() string {
	switch k {
	case Fluid:
		return "fluid"
	case Wall:
		return "wall"
	case Inlet:
		return "inlet"
	case Outlet:
		return "outlet"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// BoundaryConfig describes the one-cell border ring placed around the domain
// and the state forced at inlet cells. Corner cells always resolve to Wall.
type BoundaryConfig struct {
	Left   CellKind
	Right  CellKind
	Top    CellKind // y == 0 row
	Bottom CellKind // y == height-1 row

	// Inlet state, used only when an edge is Inlet.
	InletDensity   float64
	InletVelocityX float64
	InletVelocityY float64
}

// DefaultBoundaries is the channel-flow topology of the original demo:
// inlet on the left, outlet on the right, walls top and bottom.
func DefaultBoundaries() BoundaryConfig {
	return BoundaryConfig{
		Left:           Inlet,
		Right:          Outlet,
		Top:            Wall,
		Bottom:         Wall,
		InletDensity:   1.0,
		InletVelocityX: 0.1,
	}
}

// ClosedBox is an all-wall boundary with no inflow or outflow. Total mass
// is conserved exactly in this topology.
func ClosedBox() BoundaryConfig {
	return BoundaryConfig{Left: Wall, Right: Wall, Top: Wall, Bottom: Wall}
}

func (bc BoundaryConfig) validate() error {
	for _, k := range [4]CellKind{bc.Left, bc.Right, bc.Top, bc.Bottom} {
		if k == Fluid {
			return fmt.Errorf("%w: edge kind must be wall, inlet or outlet", ErrInvalidDimensions)
		}
	}
	hasInlet := bc.Left == Inlet || bc.Right == Inlet || bc.Top == Inlet || bc.Bottom == Inlet
	if hasInlet && bc.InletDensity <= 0 {
		return fmt.Errorf("%w: inlet density must be positive, got %g", ErrInvalidRelaxation, bc.InletDensity)
	}
	return nil
}

// Lattice owns the discretized domain: per-cell kind tags and two equal-size
// distribution arenas. The active index selects the current buffer; Swap is
// an O(1) flip, never a copy. Distributions are stored flat, cell-major with
// Q contiguous values per cell, so one cell's directions share a cache line.
type Lattice struct {
	width, height int
	f             [2][]float64
	active        int
	kinds         []CellKind
}

// NewLattice allocates both buffers and tags the border ring according to
// bc. Every cell starts at rest equilibrium (rho = 1, u = 0).
func NewLattice(width, height int, bc BoundaryConfig) (*Lattice, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := bc.validate(); err != nil {
		return nil, err
	}

	n := width * height
	l := &Lattice{
		width:  width,
		height: height,
		f:      [2][]float64{make([]float64, n*Q), make([]float64, n*Q)},
		kinds:  make([]CellKind, n),
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l.kinds[y*width+x] = edgeKind(x, y, width, height, bc)
		}
	}

	var rest [Q]float64
	Equilibrium(&rest, 1.0, 0, 0)
	for b := 0; b < 2; b++ {
		buf := l.f[b]
		for c := 0; c < n; c++ {
			copy(buf[c*Q:(c+1)*Q], rest[:])
		}
	}
	return l, nil
}

// edgeKind resolves the kind of a cell from the boundary topology. Cells on
// two edges at once (corners) are always walls so inlet and outlet columns
// never touch each other or a wall row diagonally.
func edgeKind(x, y, width, height int, bc BoundaryConfig) CellKind {
	onX := x == 0 || x == width-1
	onY := y == 0 || y == height-1
	switch {
	case onX && onY:
		return Wall
	case x == 0:
		return bc.Left
	case x == width-1:
		return bc.Right
	case y == 0:
		return bc.Top
	case y == height-1:
		return bc.Bottom
	default:
		return Fluid
	}
}

// Width returns the number of cells along x.
func (l *Lattice) Width() int { return l.width }

// Height returns the number of cells along y.
func (l *Lattice) Height() int { return l.height }

// InBounds reports whether (x, y) is inside the domain.
func (l *Lattice) InBounds(x, y int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height
}

// Kind returns the tag of the cell at (x, y). The caller must ensure the
// coordinates are in bounds.
func (l *Lattice) Kind(x, y int) CellKind { return l.kinds[y*l.width+x] }

// Kinds exposes the flat kind plane, row-major. Read-only after the
// simulation starts.
func (l *Lattice) Kinds() []CellKind { return l.kinds }

func (l *Lattice) setKind(x, y int, k CellKind) { l.kinds[y*l.width+x] = k }

// Current returns the buffer holding the present step's distributions.
func (l *Lattice) Current() []float64 { return l.f[l.active] }

// Next returns the write buffer for the streaming sweep.
func (l *Lattice) Next() []float64 { return l.f[l.active^1] }

// Swap exchanges the roles of the two buffers by flipping the active index.
func (l *Lattice) Swap() { l.active ^= 1 }

// cellOffset returns the index of direction 0 of cell (x, y) in a buffer.
func (l *Lattice) cellOffset(x, y int) int { return (y*l.width + x) * Q }
