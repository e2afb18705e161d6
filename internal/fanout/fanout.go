// Package fanout runs independent jobs concurrently and collects their
// results by slot, so callers can merge in a fixed order regardless of
// completion timing.
package fanout

import (
	"context"
	"sync"
)

// Gather runs every job in its own goroutine and returns their results in job
// order. Jobs must be independent; they all receive the same context.
func Gather[T any](ctx context.Context, jobs ...func(context.Context) T) []T {
	out := make([]T, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job func(context.Context) T) {
			defer wg.Done()
			out[i] = job(ctx)
		}(i, job)
	}
	wg.Wait()
	return out
}
