package lbm

import (
	"errors"
	"math"
	"testing"
)

// TestInvalidRelaxation verifies tau validation at construction
func TestInvalidRelaxation(t *testing.T) {
	tests := []struct {
		name    string
		tau     float64
		wantErr bool
	}{
		{"zero tau", 0, true},
		{"negative tau", -1, true},
		{"omega above 2", 0.4, true}, // omega = 2.5
		{"NaN tau", math.NaN(), true},
		{"infinite tau", math.Inf(1), true}, // omega = 0
		{"omega exactly 2", 0.5, false},
		{"typical tau", 0.6, false},
		{"viscous tau", 2.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(8, 8, tt.tau, ClosedBox())
			if tt.wantErr && !errors.Is(err, ErrInvalidRelaxation) {
				t.Errorf("tau=%g: expected ErrInvalidRelaxation, got %v", tt.tau, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("tau=%g: unexpected error %v", tt.tau, err)
			}
		})
	}
}

// TestCollisionEquilibriumFixedPoint verifies a cell already at equilibrium
// is unchanged by one collision sweep
func TestCollisionEquilibriumFixedPoint(t *testing.T) {
	s, err := New(8, 8, 0.6, ClosedBox())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Put an interior cell at a non-trivial equilibrium.
	var feq [Q]float64
	Equilibrium(&feq, 1.2, 0.05, -0.02)
	off := s.lat.cellOffset(4, 4)
	copy(s.lat.Current()[off:off+Q], feq[:])

	s.collide()

	for i := 0; i < Q; i++ {
		got := s.lat.Current()[off+i]
		if math.Abs(got-feq[i]) > 1e-12 {
			t.Errorf("Direction %d: collision moved equilibrium value %g to %g", i, feq[i], got)
		}
	}
}

// TestCollisionSkipsBoundaryCells verifies wall, inlet and outlet cells are
// untouched by the collision sweep
func TestCollisionSkipsBoundaryCells(t *testing.T) {
	s, err := New(6, 6, 0.6, DefaultBoundaries())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Disturb a wall cell and an inlet cell so collision would change them
	// if it ran there.
	wallOff := s.lat.cellOffset(3, 0)
	inletOff := s.lat.cellOffset(0, 2)
	s.lat.Current()[wallOff+1] = 0.7
	s.lat.Current()[inletOff+1] = 0.7

	s.collide()

	if s.lat.Current()[wallOff+1] != 0.7 {
		t.Error("Collision must not touch wall cells")
	}
	if s.lat.Current()[inletOff+1] != 0.7 {
		t.Error("Collision must not touch inlet cells")
	}
}
