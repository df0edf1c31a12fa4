package requestqueue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New(Config{QueueSize: 16, MinInterval: time.Millisecond})
	defer q.Stop()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		job := JobFunc(func(context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
		if err := q.Submit(context.Background(), job); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	if err := q.Barrier(context.Background()); err != nil {
		t.Fatalf("barrier: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, got := range order {
		if got != i {
			t.Fatalf("expected FIFO order, got %v", order)
		}
	}
}

func TestQueue_MinIntervalBetweenStarts(t *testing.T) {
	const interval = 40 * time.Millisecond
	q := New(Config{QueueSize: 16, MinInterval: interval})
	defer q.Stop()

	var mu sync.Mutex
	var starts []time.Time
	for i := 0; i < 3; i++ {
		job := JobFunc(func(context.Context) error {
			mu.Lock()
			starts = append(starts, time.Now())
			mu.Unlock()
			return nil
		})
		if err := q.Submit(context.Background(), job); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if err := q.Barrier(context.Background()); err != nil {
		t.Fatalf("barrier: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(starts) != 3 {
		t.Fatalf("expected 3 starts, got %d", len(starts))
	}
	for i := 1; i < len(starts); i++ {
		// Allow a small scheduling tolerance below the configured interval.
		if gap := starts[i].Sub(starts[i-1]); gap < interval-5*time.Millisecond {
			t.Fatalf("starts %d and %d only %v apart, want >= %v", i-1, i, gap, interval)
		}
	}
}

func TestQueue_SubmitAfterStop(t *testing.T) {
	q := New(Config{QueueSize: 1, MinInterval: time.Millisecond})
	q.Stop()

	err := q.Submit(context.Background(), JobFunc(func(context.Context) error { return nil }))
	if err != ErrQueueClosed {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestQueue_BackPressure(t *testing.T) {
	q := New(Config{QueueSize: 1, EnqueueTimeout: 20 * time.Millisecond, MinInterval: time.Millisecond})
	defer q.Stop()

	release := make(chan struct{})
	blocker := JobFunc(func(ctx context.Context) error {
		<-release
		return nil
	})
	if err := q.Submit(context.Background(), blocker); err != nil {
		t.Fatalf("submit blocker: %v", err)
	}
	// Fill the single queue slot, then overflow it.
	filled := false
	var overflowErr error
	for i := 0; i < 3; i++ {
		err := q.Submit(context.Background(), JobFunc(func(context.Context) error { return nil }))
		if err != nil {
			overflowErr = err
			break
		}
		filled = true
	}
	close(release)

	if !filled {
		t.Fatal("expected at least one successful queued submit")
	}
	qfe, ok := overflowErr.(*QueueFullError)
	if !ok {
		t.Fatalf("expected *QueueFullError, got %v", overflowErr)
	}
	if qfe.Capacity != 1 {
		t.Fatalf("unexpected capacity %d", qfe.Capacity)
	}
}

func TestQueue_SubmitHonorsCallerContext(t *testing.T) {
	q := New(Config{QueueSize: 1, EnqueueTimeout: time.Second, MinInterval: time.Millisecond})
	defer q.Stop()

	release := make(chan struct{})
	_ = q.Submit(context.Background(), JobFunc(func(context.Context) error { <-release; return nil }))
	_ = q.Submit(context.Background(), JobFunc(func(context.Context) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := q.Submit(ctx, JobFunc(func(context.Context) error { return nil }))
	close(release)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestQueue_CancelledJobSkipsRun(t *testing.T) {
	q := New(Config{QueueSize: 4, MinInterval: time.Millisecond})
	defer q.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	job := JobFunc(func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	if err := q.Submit(ctx, job); err != nil && err != context.Canceled {
		t.Fatalf("submit: %v", err)
	}
	_ = q.Barrier(context.Background())

	if atomic.LoadInt32(&ran) != 0 {
		t.Fatal("cancelled job must not run")
	}
}

func TestQueue_StopDrainsRemaining(t *testing.T) {
	q := New(Config{QueueSize: 16, MinInterval: 20 * time.Millisecond})

	var ran int32
	for i := 0; i < 5; i++ {
		_ = q.Submit(context.Background(), JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}))
	}
	q.Stop()

	if got := atomic.LoadInt32(&ran); got != 5 {
		t.Fatalf("expected all 5 queued jobs to drain, got %d", got)
	}
}

func TestQueue_StopIdempotent(t *testing.T) {
	q := New(Config{})
	q.Stop()
	q.Stop()
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
