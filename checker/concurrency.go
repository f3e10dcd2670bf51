package checker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// workRange is one contiguous span of input clause ids assigned to a
// single deletion worker.
type workRange struct {
	Lo, Hi int32
}

// runWorkRanges dispatches fn over every range, bounded to threads
// concurrent workers. threads <= 1 runs every range inline on the
// calling goroutine. Grounded on the gini solver's assumption-exchange
// worker pool (ax/ax.go), here simplified from its channel-based
// exchange protocol to an errgroup since ranges are independent and
// need no cross-worker communication.
//
// Each worker's return value is collected into its own slot of the
// returned slice (indexed by range position, never shared between
// goroutines), so callers can fold per-worker results in after every
// range has finished without any fields shared across workers.
func runWorkRanges(ranges []workRange, threads int, fn func(lo, hi int32) (interface{}, error)) ([]interface{}, error) {
	if threads < 1 {
		threads = 1
	}
	results := make([]interface{}, len(ranges))
	if threads == 1 || len(ranges) <= 1 {
		for i, r := range ranges {
			res, err := fn(r.Lo, r.Hi)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
		return results, nil
	}
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(threads)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			res, err := fn(r.Lo, r.Hi)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
