package lbm

import "sync"

// forEachRowBand partitions the row range [0, height) across the configured
// workers and runs fn once per band. Bands never overlap, so a sweep that
// only touches its own rows' cells (collision) or writes bijective targets
// (streaming) needs no per-cell locking. The call returns only after every
// band finished, which is the barrier between sweeps.
func (s *Simulation) forEachRowBand(fn func(y0, y1 int)) {
	h := s.lat.Height()
	workers := s.workers
	if workers > h {
		workers = h
	}
	if workers <= 1 {
		fn(0, h)
		return
	}

	var wg sync.WaitGroup
	band := (h + workers - 1) / workers
	for y0 := 0; y0 < h; y0 += band {
		y1 := y0 + band
		if y1 > h {
			y1 = h
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
