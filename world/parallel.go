package world

import (
	"runtime"
	"sync"
)

// parallelRange calls fn(i) for i in [0, n), fanning out across
// runtime.GOMAXPROCS(0) goroutines when n is large enough to be worth
// it (spec section 5: "inner loops over independent entities/pairs
// may run data-parallel; tick-to-tick ordering is never relaxed").
// fn must not touch state shared across indices beyond what it owns
// for that index.
func parallelRange(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
