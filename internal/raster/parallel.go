package raster

import (
	"runtime"
	"sync"
)

// ParallelRows partitions [0, height) into contiguous bands and runs fn
// once per band, each on its own goroutine. Bands are disjoint, so any
// per-row operation produces output bit-identical to a sequential pass.
// Small images run inline to avoid goroutine overhead.
func ParallelRows(height int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers <= 1 || height < 64 {
		fn(0, height)
		return
	}
	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
