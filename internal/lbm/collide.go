package lbm

// collide relaxes every fluid cell toward its local equilibrium (BGK):
//
//	f_i <- f_i - omega*(f_i - feq_i)
//
// The sweep is purely local per cell and mutates the current buffer in
// place, so the row bands run in parallel with no synchronization. Wall,
// inlet and outlet cells are skipped; their semantics are applied by the
// boundary sweep after streaming.
func (s *Simulation) collide() {
	cur := s.lat.Current()
	w := s.lat.Width()
	omega := s.omega

	s.forEachRowBand(func(y0, y1 int) {
		var feq [Q]float64
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				if s.lat.kinds[row+x] != Fluid {
					continue
				}
				off := (row + x) * Q

				rho := 0.0
				ux := 0.0
				uy := 0.0
				for i := 0; i < Q; i++ {
					f := cur[off+i]
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

				Equilibrium(&feq, rho, ux, uy)
				for i := 0; i < Q; i++ {
					cur[off+i] -= omega * (cur[off+i] - feq[i])
				}
			}
		}
	})
}
