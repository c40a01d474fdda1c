package lbm

import (
	"math"
	"testing"
)

// TestFillMacroscopicsMatchesPointQueries verifies the bulk extraction
// agrees with the per-cell accessors.
func TestFillMacroscopicsMatchesPointQueries(t *testing.T) {
	s, err := New(12, 8, 0.6, DefaultBoundaries())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}

	n := s.Width() * s.Height()
	rho := make([]float64, n)
	ux := make([]float64, n)
	uy := make([]float64, n)
	if err := s.FillMacroscopics(rho, ux, uy); err != nil {
		t.Fatalf("FillMacroscopics failed: %v", err)
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			c := y*s.Width() + x
			r, vx, vy, err := s.Cell(x, y)
			if err != nil {
				t.Fatalf("Cell(%d,%d): %v", x, y, err)
			}
			if rho[c] != r || ux[c] != vx || uy[c] != vy {
				t.Fatalf("plane mismatch at (%d,%d): (%v,%v,%v) vs (%v,%v,%v)",
					x, y, rho[c], ux[c], uy[c], r, vx, vy)
			}
		}
	}
}

func TestFillMacroscopicsLengthCheck(t *testing.T) {
	s, err := New(6, 6, 0.6, ClosedBox())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.FillMacroscopics(make([]float64, 5), nil, nil); err == nil {
		t.Error("short plane should be rejected")
	}
	// nil planes are skipped
	if err := s.FillMacroscopics(nil, nil, nil); err != nil {
		t.Errorf("all-nil planes should be fine: %v", err)
	}
}

func TestSpeedPlane(t *testing.T) {
	ux := []float64{0, 3, 0.1}
	uy := []float64{0, 4, 0}
	dst := make([]float64, 3)
	SpeedPlane(ux, uy, dst)

	want := []float64{0, 5, 0.1}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

// TestVorticityPlaneShear builds a pure shear ux = y and checks the
// unscaled central-difference curl is -2 in the interior and zero on the
// border.
func TestVorticityPlaneShear(t *testing.T) {
	const w, h = 5, 5
	ux := make([]float64, w*h)
	uy := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ux[y*w+x] = float64(y)
		}
	}

	dst := make([]float64, w*h)
	VorticityPlane(ux, uy, w, h, dst)

	// Central difference of ux over 2*dy contributes (y+1)-(y-1) = 2 with
	// the plane's unscaled stencil.
	if got := dst[2*w+2]; got != -2 {
		t.Errorf("interior vorticity = %v, want -2", got)
	}
	if dst[0] != 0 || dst[w*h-1] != 0 {
		t.Error("border cells should report zero vorticity")
	}
}

func TestVorticityPlaneMatchesPointQuery(t *testing.T) {
	s, err := New(10, 10, 0.6, DefaultBoundaries())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	n := s.Width() * s.Height()
	ux := make([]float64, n)
	uy := make([]float64, n)
	if err := s.FillMacroscopics(nil, ux, uy); err != nil {
		t.Fatalf("FillMacroscopics failed: %v", err)
	}
	plane := make([]float64, n)
	VorticityPlane(ux, uy, s.Width(), s.Height(), plane)

	for y := 1; y < s.Height()-1; y++ {
		for x := 1; x < s.Width()-1; x++ {
			want, err := s.Vorticity(x, y)
			if err != nil {
				t.Fatalf("Vorticity(%d,%d): %v", x, y, err)
			}
			if math.Abs(plane[y*s.Width()+x]-want) > 1e-12 {
				t.Fatalf("vorticity mismatch at (%d,%d): %v vs %v", x, y, plane[y*s.Width()+x], want)
			}
		}
	}
}
