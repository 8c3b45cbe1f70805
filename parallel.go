package cluster2d

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runParallel calls fn for every task index in [0, tasks) using at most
// numWorkers goroutines. Each task must write only its own result slot.
// Falls back to a sequential loop if numWorkers <= 1, so a single worker
// never pays for goroutine startup.
//
// The first error cancels the context passed to the remaining tasks and
// is returned.
func runParallel(ctx context.Context, tasks, numWorkers int, fn func(ctx context.Context, task int) error) error {
	if numWorkers <= 1 || tasks <= 1 {
		for t := 0; t < tasks; t++ {
			if err := fn(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for t := 0; t < tasks; t++ {
		g.Go(func() error {
			return fn(gctx, t)
		})
	}
	return g.Wait()
}
