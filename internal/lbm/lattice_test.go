package lbm

import (
	"errors"
	"math"
	"testing"
)

// TestNewLatticeInvalidDimensions verifies construction fails fast on bad sizes
func TestNewLatticeInvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 5},
		{"zero height", 5, 0},
		{"negative width", -1, 3},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLattice(tt.width, tt.height, ClosedBox())
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("Expected ErrInvalidDimensions, got %v", err)
			}
		})
	}
}

// TestLatticeRejectsFluidEdge verifies a boundary config cannot leave an
// open (fluid) domain edge
func TestLatticeRejectsFluidEdge(t *testing.T) {
	bc := ClosedBox()
	bc.Top = Fluid
	if _, err := NewLattice(4, 4, bc); err == nil {
		t.Error("Expected error for fluid edge kind, got nil")
	}
}

// TestLatticeSwap verifies Swap flips buffer roles without copying data
func TestLatticeSwap(t *testing.T) {
	l, err := NewLattice(3, 3, ClosedBox())
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}

	cur := l.Current()
	next := l.Next()
	cur[0] = 42 // marker

	l.Swap()

	if &l.Current()[0] != &next[0] {
		t.Error("After Swap, Current should be the old Next buffer")
	}
	if &l.Next()[0] != &cur[0] {
		t.Error("After Swap, Next should be the old Current buffer")
	}
	if l.Next()[0] != 42 {
		t.Error("Swap must not copy or clear buffer contents")
	}

	l.Swap()
	if &l.Current()[0] != &cur[0] {
		t.Error("Double Swap should restore the original roles")
	}
}

// TestRestEquilibriumInit verifies every cell starts at rho=1, u=0
func TestRestEquilibriumInit(t *testing.T) {
	l, err := NewLattice(5, 4, DefaultBoundaries())
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}

	for c := 0; c < 5*4; c++ {
		rho, ux, uy := moments(l.Current(), c*Q)
		if math.Abs(rho-1.0) > 1e-12 {
			t.Fatalf("Cell %d: initial density %g, want 1.0", c, rho)
		}
		if ux != 0 || uy != 0 {
			t.Fatalf("Cell %d: initial velocity (%g, %g), want rest", c, ux, uy)
		}
	}
}

// TestEdgeKinds verifies the border ring topology and wall corners
func TestEdgeKinds(t *testing.T) {
	l, err := NewLattice(6, 5, DefaultBoundaries())
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}

	// Corners are always walls.
	for _, c := range [][2]int{{0, 0}, {5, 0}, {0, 4}, {5, 4}} {
		if k := l.Kind(c[0], c[1]); k != Wall {
			t.Errorf("Corner (%d,%d): kind %v, want wall", c[0], c[1], k)
		}
	}

	if k := l.Kind(0, 2); k != Inlet {
		t.Errorf("Left edge: kind %v, want inlet", k)
	}
	if k := l.Kind(5, 2); k != Outlet {
		t.Errorf("Right edge: kind %v, want outlet", k)
	}
	if k := l.Kind(3, 0); k != Wall {
		t.Errorf("Top edge: kind %v, want wall", k)
	}
	if k := l.Kind(3, 4); k != Wall {
		t.Errorf("Bottom edge: kind %v, want wall", k)
	}
	if k := l.Kind(2, 2); k != Fluid {
		t.Errorf("Interior: kind %v, want fluid", k)
	}
}
