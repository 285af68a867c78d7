package renderer

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestWorkerPool_ProcessesEveryRowOnce(t *testing.T) {
	for _, workers := range []int{1, 3, 16} {
		pool := NewWorkerPool(workers)

		var mu sync.Mutex
		seen := make(map[int]int)
		err := pool.Run(context.Background(), 50, func(ctx context.Context, task RowTask) error {
			mu.Lock()
			seen[task.Row]++
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("Run with %d workers failed: %v", workers, err)
		}

		if len(seen) != 50 {
			t.Errorf("Workers %d: expected 50 rows, got %d", workers, len(seen))
		}
		for row, count := range seen {
			if count != 1 {
				t.Errorf("Workers %d: row %d processed %d times", workers, row, count)
			}
		}
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	if got := NewWorkerPool(0).GetNumWorkers(); got < 1 {
		t.Errorf("Expected at least one worker, got %d", got)
	}
	if got := NewWorkerPool(5).GetNumWorkers(); got != 5 {
		t.Errorf("Expected 5 workers, got %d", got)
	}
}

func TestWorkerPool_PropagatesError(t *testing.T) {
	errBadRow := errors.New("bad row")
	pool := NewWorkerPool(4)

	err := pool.Run(context.Background(), 100, func(ctx context.Context, task RowTask) error {
		if task.Row == 10 {
			return errBadRow
		}
		return nil
	})

	if !errors.Is(err, errBadRow) {
		t.Errorf("Expected errBadRow, got %v", err)
	}
}

func TestWorkerPool_ZeroRows(t *testing.T) {
	called := false
	err := NewWorkerPool(2).Run(context.Background(), 0, func(ctx context.Context, task RowTask) error {
		called = true
		return nil
	})
	if err != nil || called {
		t.Errorf("Expected no work and no error, got called=%v err=%v", called, err)
	}
}
