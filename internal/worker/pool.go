// Package worker provides bounded concurrency and rate limiting for the
// offline ingestion step, where every passage costs one embedding call.
package worker

import (
	"context"
	"sync"
)

// Pool runs indexed tasks with bounded concurrency. Results keep their
// index, so callers can pair outputs with inputs without locking.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes task(ctx, i) for i in [0, n) and returns one error slot per
// task. Cancelling the context stops dispatch; in-flight tasks see the
// cancelled context through their own blocking calls.
func (p *Pool) Run(ctx context.Context, n int, task func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = task(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			// Mark undispatched tasks as cancelled
			for j := i; j < n; j++ {
				errs[j] = ctx.Err()
			}
			close(jobs)
			wg.Wait()
			return errs
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	return errs
}
