package lbm

// stream advects post-collision distributions: direction i of the source
// cell is copied into direction i of the cell at (x+Cx[i], y+Cy[i]) in the
// next buffer. It reads only the current buffer and writes only the next
// one, so there is no aliasing within a step. Per direction the map from
// source to destination is a bijection, which makes the row bands safe to
// run in parallel: no two sources write the same destination slot.
//
// Inlet and outlet cells act as sources too — their forced distributions
// must enter the domain — while wall cells neither stream nor receive.
// Slots whose upstream neighbor is a wall are left stale here and filled by
// the bounce-back pass; streaming never writes across the domain edge.
func (s *Simulation) stream() {
	cur := s.lat.Current()
	next := s.lat.Next()
	w, h := s.lat.Width(), s.lat.Height()

	s.forEachRowBand(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				if s.lat.kinds[row+x] == Wall {
					continue
				}
				off := (row + x) * Q
				for i := 0; i < Q; i++ {
					tx := x + Cx[i]
					ty := y + Cy[i]
					if tx < 0 || tx >= w || ty < 0 || ty >= h {
						continue
					}
					if s.lat.kinds[ty*w+tx] == Wall {
						continue
					}
					next[(ty*w+tx)*Q+i] = cur[off+i]
				}
			}
		}
	})
}
