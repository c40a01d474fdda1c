package lbm

// applyBoundaries corrects the next buffer after streaming. It must see the
// fully streamed grid and must finish before the next collision sweep, so
// it runs between the stream barrier and the swap. Three passes, in order:
//
//  1. Walls: halfway bounce-back. The post-collision value the interior
//     neighbor pushed toward the wall reappears at that neighbor in the
//     exact opposite direction, modeling a no-slip boundary with a one-step
//     reflection. This pass also fills every slot streaming left stale
//     (slots whose upstream neighbor is a wall).
//  2. Inlets: the cell is overwritten with the equilibrium distribution of
//     the configured inlet density and velocity.
//  3. Outlets: the cell copies the distributions of its adjacent interior
//     cell (zero-gradient), which is fully corrected by the passes above.
//
// The work list is tiny compared to the grid (perimeter plus obstacle
// cells), so this sweep stays serial.
func (s *Simulation) applyBoundaries() {
	cur := s.lat.Current()
	next := s.lat.Next()
	w, h := s.lat.Width(), s.lat.Height()

	for _, b := range s.boundary {
		if b.kind != Wall {
			continue
		}
		for i := 1; i < Q; i++ {
			// The neighbor that streams along direction i into this wall.
			nx := b.x - Cx[i]
			ny := b.y - Cy[i]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			n := ny*w + nx
			if s.lat.kinds[n] == Wall {
				continue
			}
			next[n*Q+Opposite[i]] = cur[n*Q+i]
		}
	}

	for _, b := range s.boundary {
		if b.kind != Inlet {
			continue
		}
		copy(next[(b.y*w+b.x)*Q:(b.y*w+b.x+1)*Q], s.inletEq[:])
	}

	for _, b := range s.boundary {
		if b.kind != Outlet {
			continue
		}
		nx, ny := interiorNeighbor(b.x, b.y, w, h)
		copy(next[(b.y*w+b.x)*Q:(b.y*w+b.x+1)*Q], next[(ny*w+nx)*Q:(ny*w+nx+1)*Q])
	}
}

// interiorNeighbor returns the cell one step inward from an edge cell.
// Outlets only occur on the border ring (corners are walls), so exactly one
// edge test matches.
func interiorNeighbor(x, y, w, h int) (int, int) {
	switch {
	case x == 0:
		return 1, y
	case x == w-1:
		return w - 2, y
	case y == 0:
		return x, 1
	default:
		return x, h - 2
	}
}
