package lbm

import (
	"fmt"
	"math"
)

// moments computes density and momentum-derived velocity for one cell
// offset of a buffer. Pure; the sole formula the visualization side ever
// consumes.
func moments(buf []float64, off int) (rho, ux, uy float64) {
	for i := 0; i < Q; i++ {
		f := buf[off+i]
		rho += f
		ux += f * float64(Cx[i])
		uy += f * float64(Cy[i])
	}
	if rho > 0 {
		ux /= rho
		uy /= rho
	} else {
		ux, uy = 0, 0
	}
	return rho, ux, uy
}

func (s *Simulation) checkBounds(x, y int) error {
	if !s.lat.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, s.lat.Width(), s.lat.Height())
	}
	return nil
}

// Density returns rho = sum f_i at (x, y) on the current buffer.
func (s *Simulation) Density(x, y int) (float64, error) {
	if err := s.checkBounds(x, y); err != nil {
		return 0, err
	}
	rho, _, _ := moments(s.lat.Current(), s.lat.cellOffset(x, y))
	return rho, nil
}

// Velocity returns u = (1/rho) * sum f_i*e_i at (x, y) on the current buffer.
func (s *Simulation) Velocity(x, y int) (float64, float64, error) {
	if err := s.checkBounds(x, y); err != nil {
		return 0, 0, err
	}
	_, ux, uy, err := s.cell(x, y)
	return ux, uy, err
}

// Cell returns density and velocity at (x, y) in one read.
func (s *Simulation) Cell(x, y int) (rho, ux, uy float64, err error) {
	if err := s.checkBounds(x, y); err != nil {
		return 0, 0, 0, err
	}
	return s.cell(x, y)
}

func (s *Simulation) cell(x, y int) (rho, ux, uy float64, err error) {
	rho, ux, uy = moments(s.lat.Current(), s.lat.cellOffset(x, y))
	return rho, ux, uy, nil
}

// Vorticity returns the curl of the velocity field at (x, y) via central
// differences. Cells on the domain border report zero.
func (s *Simulation) Vorticity(x, y int) (float64, error) {
	if err := s.checkBounds(x, y); err != nil {
		return 0, err
	}
	w, h := s.lat.Width(), s.lat.Height()
	if x < 1 || x > w-2 || y < 1 || y > h-2 {
		return 0, nil
	}
	cur := s.lat.Current()
	_, _, vRight := moments(cur, s.lat.cellOffset(x+1, y))
	_, _, vLeft := moments(cur, s.lat.cellOffset(x-1, y))
	_, uDown, _ := moments(cur, s.lat.cellOffset(x, y+1))
	_, uUp, _ := moments(cur, s.lat.cellOffset(x, y-1))
	return (vRight - vLeft) - (uDown - uUp), nil
}

// TotalMass sums every distribution value over the whole current buffer.
// In a closed all-wall domain this is invariant across steps.
func (s *Simulation) TotalMass() float64 {
	cur := s.lat.Current()
	total := 0.0
	for _, f := range cur {
		total += f
	}
	return total
}

// FillMacroscopics writes the per-cell density and velocity planes of the
// current buffer into the given row-major slices, each of length
// Width*Height. A nil slice skips that plane.
func (s *Simulation) FillMacroscopics(rho, ux, uy []float64) error {
	w, h := s.lat.Width(), s.lat.Height()
	n := w * h
	for _, plane := range [][]float64{rho, ux, uy} {
		if plane != nil && len(plane) != n {
			return fmt.Errorf("%w: plane length %d, want %d", ErrInvalidDimensions, len(plane), n)
		}
	}
	cur := s.lat.Current()
	s.forEachRowBand(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				c := y*w + x
				r, vx, vy := moments(cur, c*Q)
				if rho != nil {
					rho[c] = r
				}
				if ux != nil {
					ux[c] = vx
				}
				if uy != nil {
					uy[c] = vy
				}
			}
		}
	})
	return nil
}

// SpeedPlane writes sqrt(ux^2+uy^2) per cell into dst.
func SpeedPlane(ux, uy, dst []float64) {
	for i := range dst {
		dst[i] = math.Hypot(ux[i], uy[i])
	}
}

// VorticityPlane computes the central-difference curl of the velocity
// planes into dst; border cells are zero.
func VorticityPlane(ux, uy []float64, w, h int, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := y*w + x
			dst[c] = (uy[c+1] - uy[c-1]) - (ux[c+w] - ux[c-w])
		}
	}
}
