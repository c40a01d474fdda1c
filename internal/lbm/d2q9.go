// Package lbm implements a single-phase 2D lattice Boltzmann (BGK) flow
// solver on the standard D2Q9 velocity set. The solver owns two lattice
// buffers and advances them with the fixed sweep sequence
// collide -> stream -> boundaries -> swap; macroscopic fields (density,
// velocity, vorticity) are derived on demand and never stored.
package lbm

// Q is the number of discrete velocity directions in the D2Q9 set.
const Q = 9

// CS2 is the lattice speed of sound squared for D2Q9.
const CS2 = 1.0 / 3.0

// Direction index layout for the D2Q9 set:
//
//	6   2   5
//	  \ | /
//	3 — 0 — 1
//	  / | \
//	7   4   8
//
// Index 0 is the rest direction. The tables below are process-wide immutable
// state shared by every simulation; nothing may mutate them.
var (
	// Cx, Cy hold the discrete velocity components per direction.
	Cx = [Q]int{0, 1, 0, -1, 0, 1, -1, -1, 1}
	Cy = [Q]int{0, 0, 1, 0, -1, 1, 1, -1, -1}

	// Weights are the quadrature weights per direction, summing to exactly 1.
	Weights = [Q]float64{
		4.0 / 9.0,
		1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
		1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
	}

	// Opposite maps each direction to its reverse, used by bounce-back walls.
	Opposite = [Q]int{0, 3, 4, 1, 2, 7, 8, 5, 6}
)

// Equilibrium fills feq with the second-order equilibrium distribution for
// the given density and velocity:
//
//	feq_i = w_i * rho * (1 + 3(e_i.u) + 4.5(e_i.u)^2 - 1.5(u.u))
func Equilibrium(feq *[Q]float64, rho, ux, uy float64) {
	uu := ux*ux + uy*uy
	for i := 0; i < Q; i++ {
		cu := float64(Cx[i])*ux + float64(Cy[i])*uy
		feq[i] = Weights[i] * rho * (1 + 3*cu + 4.5*cu*cu - 1.5*uu)
	}
}

// RelaxationTimeFor derives the BGK relaxation time from a characteristic
// speed and length and a target Reynolds number:
//
//	tau = L*u / (cs^2 * Re) + 1/2
func RelaxationTimeFor(speed, characteristicLength, reynolds float64) float64 {
	return characteristicLength*speed/(CS2*reynolds) + 0.5
}
