package gmm

import (
	"runtime"
	"sync"
)

// Runner partitions the pixel index range [0, n) and invokes body once for
// each partition. Partitions must cover the range exactly once and must not
// overlap; beyond that the detector is indifferent to how the range is
// split, because every pixel owns its model and its mask slot exclusively.
type Runner interface {
	Run(n int, body func(lo, hi int))
}

// SequentialRunner executes the whole range in the calling goroutine.
// Useful on constrained targets and as the reference for determinism tests.
type SequentialRunner struct{}

func (SequentialRunner) Run(n int, body func(lo, hi int)) {
	if n > 0 {
		body(0, n)
	}
}

// parallelRunner fans the range out over a fixed number of goroutines in
// contiguous chunks and waits for all of them to finish. No work survives a
// Run call.
type parallelRunner struct {
	workers int
}

// NewParallelRunner returns a runner that splits the range across the given
// number of goroutines. workers <= 0 selects runtime.NumCPU.
func NewParallelRunner(workers int) Runner {
	return parallelRunner{workers: workers}
}

// minParallelPixels keeps tiny frames on the calling goroutine, where the
// fan-out overhead would dominate.
const minParallelPixels = 4096

func (r parallelRunner) Run(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers == 1 || n < minParallelPixels {
		body(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			body(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
