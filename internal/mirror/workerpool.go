package mirror

import (
	"context"
	"sync"
)

// WorkerPool bounds the concurrency of one mirroring pass using a semaphore,
// sharing the rate-limited client across workers. Concurrency 1 runs the
// pass strictly sequentially.
type WorkerPool struct {
	semaphore chan struct{}
}

// NewWorkerPool creates a pool with the given concurrency limit.
func NewWorkerPool(concurrency int) *WorkerPool {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 16 {
		concurrency = 16 // be gentle with the origin service
	}
	return &WorkerPool{semaphore: make(chan struct{}, concurrency)}
}

// ForEach runs fn(i) for i in [0, n), at most the pool's concurrency at a
// time, and waits for completion. Cancellation stops scheduling new work but
// lets started workers finish, so files are never left half-written.
func (p *WorkerPool) ForEach(ctx context.Context, n int, fn func(i int)) {
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		select {
		case p.semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-p.semaphore }()
			fn(i)
		}(i)
	}

	wg.Wait()
}
