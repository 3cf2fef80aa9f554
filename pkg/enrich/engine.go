package enrich

import (
	"context"
	"sync"
)

// DefaultMaxConcurrent bounds the worker pool when the caller does not
// pick a limit.
const DefaultMaxConcurrent = 20

// Unit is one enrichment task: a result-slot key (row index or category
// key) and the payload handed to the external service. Keys of units
// dispatched in one batch are disjoint by construction.
type Unit struct {
	Key     string
	Payload string
}

// Result is the per-unit outcome. A unit's failure never aborts the
// batch; it is carried here instead.
type Result struct {
	Key   string
	Value string
	Err   error
}

// Progress is reported after each unit completes. Fraction is
// non-decreasing and reaches 1.0 exactly when the last unit finishes.
type Progress struct {
	Completed int
	Total     int
	Fraction  float64
}

// WorkFunc performs one unit against the external service.
type WorkFunc func(ctx context.Context, unit Unit) (string, error)

// CompletionFunc observes each finished unit. It runs serialized under
// the engine's lock, so merging the result into a shared table and
// publishing progress need no further synchronization.
type CompletionFunc func(res Result, progress Progress)

// Run dispatches every unit to a bounded worker pool and blocks until
// all of them finish. Completion order is unspecified. There are no
// retries and no cancellation of units already dispatched; ctx is only
// passed through to the work function.
func Run(ctx context.Context, units []Unit, maxConcurrent int, work WorkFunc, onComplete CompletionFunc) []Result {
	if len(units) == 0 {
		return nil
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		results   = make([]Result, 0, len(units))
		completed int
		total     = len(units)
	)
	sem := make(chan struct{}, maxConcurrent)

	for _, u := range units {
		wg.Add(1)
		go func(unit Unit) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			value, err := work(ctx, unit)
			res := Result{Key: unit.Key, Value: value, Err: err}

			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
			completed++
			if onComplete != nil {
				onComplete(res, Progress{
					Completed: completed,
					Total:     total,
					Fraction:  float64(completed) / float64(total),
				})
			}
		}(u)
	}
	wg.Wait()

	return results
}
