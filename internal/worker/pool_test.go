package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(4)

	var executed int32
	errs := pool.Run(context.Background(), 20, func(ctx context.Context, i int) error {
		atomic.AddInt32(&executed, 1)
		return nil
	})

	if executed != 20 {
		t.Errorf("Expected 20 executions, got %d", executed)
	}
	for i, err := range errs {
		if err != nil {
			t.Errorf("Task %d returned unexpected error: %v", i, err)
		}
	}
}

func TestPool_ErrorsKeepTheirIndex(t *testing.T) {
	pool := NewPool(3)

	boom := errors.New("boom")
	errs := pool.Run(context.Background(), 10, func(ctx context.Context, i int) error {
		if i%3 == 0 {
			return boom
		}
		return nil
	})

	for i, err := range errs {
		if i%3 == 0 && !errors.Is(err, boom) {
			t.Errorf("Expected error at index %d", i)
		}
		if i%3 != 0 && err != nil {
			t.Errorf("Unexpected error at index %d: %v", i, err)
		}
	}
}

func TestPool_CancelStopsDispatch(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	var executed int32
	errs := pool.Run(ctx, 100, func(ctx context.Context, i int) error {
		if i == 0 {
			cancel()
			time.Sleep(10 * time.Millisecond)
		}
		atomic.AddInt32(&executed, 1)
		return nil
	})

	if executed >= 100 {
		t.Error("Expected cancellation to stop dispatch before all tasks ran")
	}

	cancelled := 0
	for _, err := range errs {
		if errors.Is(err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("Expected undispatched tasks marked cancelled")
	}
}

func TestPool_ZeroWorkersDefaultsToOne(t *testing.T) {
	pool := NewPool(0)

	errs := pool.Run(context.Background(), 3, func(ctx context.Context, i int) error {
		return nil
	})
	if len(errs) != 3 {
		t.Errorf("Expected 3 error slots, got %d", len(errs))
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if time.Since(start) > time.Second {
		t.Error("Unlimited limiter should not block")
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	_ = l.Allow() // drain the burst

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("Expected error waiting on cancelled context")
	}
}
