package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RowTask represents a single image row handed to a worker
type RowTask struct {
	Row int
}

// RowFunc renders one row. Rows never overlap, so implementations may write
// their row of a shared image without locking.
type RowFunc func(ctx context.Context, task RowTask) error

// WorkerPool distributes whole rows across a fixed number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run feeds rows 0..rows-1 to the workers in order and waits for all of them.
// The first error cancels the remaining rows and is returned.
func (wp *WorkerPool) Run(ctx context.Context, rows int, render RowFunc) error {
	g, ctx := errgroup.WithContext(ctx)
	taskQueue := make(chan RowTask)

	g.Go(func() error {
		defer close(taskQueue)
		for row := 0; row < rows; row++ {
			select {
			case taskQueue <- RowTask{Row: row}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < wp.numWorkers; i++ {
		g.Go(func() error {
			for task := range taskQueue {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := render(ctx, task); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}
