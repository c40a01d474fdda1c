package lbm

import (
	"fmt"
	"math"
)

// Shape is an immersed obstacle tested cell by cell at construction time.
type Shape interface {
	// Contains reports whether the shape covers the lattice position.
	Contains(x, y float64) bool
	// CharacteristicLength is the reference length used to derive the
	// relaxation time from a Reynolds number.
	CharacteristicLength() float64
}

// Circle is a circular obstacle.
type Circle struct {
	CX, CY float64
	R      float64
}

// Contains reports whether (x, y) lies inside the circle.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.CX
	dy := y - c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// CharacteristicLength returns the diameter.
func (c Circle) CharacteristicLength() float64 { return 2 * c.R }

// NACA4 is a 4-digit NACA airfoil: camber M, camber position P and
// thickness T as fractions of the chord, rotated by the angle of attack.
type NACA4 struct {
	CX, CY float64 // leading-edge position
	Chord  float64
	M      float64 // maximum camber, e.g. 0.02 for a 2412
	P      float64 // location of maximum camber, e.g. 0.4
	T      float64 // maximum thickness, e.g. 0.12
	Angle  float64 // angle of attack in radians
}

// Contains reports whether (x, y) lies inside the airfoil section.
func (a NACA4) Contains(px, py float64) bool {
	// Translate and scale to chord units.
	x := (px - a.CX) / a.Chord
	y := (py - a.CY) / a.Chord
	if x*x+y*y > 1 {
		return false
	}

	// Rotate onto the chord axis.
	sin, cos := math.Sincos(a.Angle)
	x, y = x*cos-y*sin, x*sin+y*cos
	if x < 0 || x > 1 {
		return false
	}

	// Mean camber line at this chord position.
	var yc float64
	switch {
	case a.M == 0:
		yc = 0
	case x <= a.P:
		yc = a.M / (a.P * a.P) * (2*a.P - x) * x
	default:
		q := 1 - a.P
		yc = a.M / (q * q) * (1 - 2*a.P + (2*a.P-x)*x)
	}

	// Half thickness at this chord position.
	yt := 5 * a.T * (0.2969*math.Sqrt(x) + x*(-0.126+x*(-0.3516+x*(0.2843-0.1015*x))))

	return y >= yc-yt && y <= yc+yt
}

// CharacteristicLength returns the chord length.
func (a NACA4) CharacteristicLength() float64 { return a.Chord }

// ParseNACA4 decodes a 4-digit designation like "0012" or "2412" into
// camber, camber position and thickness fractions.
func ParseNACA4(digits string) (m, p, t float64, err error) {
	if len(digits) != 4 {
		return 0, 0, 0, fmt.Errorf("naca designation %q: want exactly 4 digits", digits)
	}
	var d [4]int
	for i, r := range digits {
		if r < '0' || r > '9' {
			return 0, 0, 0, fmt.Errorf("naca designation %q: non-digit %q", digits, r)
		}
		d[i] = int(r - '0')
	}
	m = float64(d[0]) / 100
	p = float64(d[1]) / 10
	t = float64(d[2]*10+d[3]) / 100
	if m > 0 && p == 0 {
		return 0, 0, 0, fmt.Errorf("naca designation %q: cambered section needs a camber position", digits)
	}
	return m, p, t, nil
}
