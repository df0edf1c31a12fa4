package binding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBinding_ReloadPublishesLoadingThenData(t *testing.T) {
	b := New(func(ctx context.Context) (string, error) {
		return "loaded", nil
	})

	var mu sync.Mutex
	var states []State[string]
	cancel := b.Subscribe(func(s State[string]) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	defer cancel()

	if err := b.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// initial snapshot, loading, loaded
	if len(states) != 3 {
		t.Fatalf("expected 3 notifications, got %d: %+v", len(states), states)
	}
	if states[1].Loading != true {
		t.Fatalf("second notification must be the loading state: %+v", states[1])
	}
	if states[2].Loading || states[2].Data != "loaded" || states[2].Err != nil {
		t.Fatalf("final state wrong: %+v", states[2])
	}
}

func TestBinding_ErrorKeepsPreviousData(t *testing.T) {
	boom := errors.New("backend down")
	calls := 0
	b := New(func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "first", nil
		}
		return "", boom
	})

	ctx := context.Background()
	if err := b.Reload(ctx); err != nil {
		t.Fatalf("first reload: %v", err)
	}
	if err := b.Reload(ctx); !errors.Is(err, boom) {
		t.Fatalf("second reload should fail, got %v", err)
	}

	s := b.State()
	if s.Data != "first" {
		t.Fatalf("stale data must survive a failed reload: %+v", s)
	}
	if !errors.Is(s.Err, boom) || s.Loading {
		t.Fatalf("error state wrong: %+v", s)
	}
}

func TestBinding_RetryClearsError(t *testing.T) {
	boom := errors.New("transient")
	calls := 0
	b := New(func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 42, nil
	})

	ctx := context.Background()
	_ = b.Reload(ctx)
	if b.State().Err == nil {
		t.Fatal("precondition: first load must fail")
	}

	var sawCleared bool
	cancel := b.Subscribe(func(s State[int]) {
		if s.Err == nil && s.Data == 0 {
			sawCleared = true
		}
	})
	defer cancel()

	if err := b.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	s := b.State()
	if s.Err != nil || s.Data != 42 {
		t.Fatalf("retry did not recover: %+v", s)
	}
	if !sawCleared {
		t.Fatal("retry must publish the cleared-error state before refetching")
	}
}

func TestBinding_WithFallbackSeedsData(t *testing.T) {
	b := New(
		func(ctx context.Context) ([]string, error) { return nil, errors.New("nope") },
		WithFallback([]string{"placeholder"}),
	)
	s := b.State()
	if len(s.Data) != 1 || s.Data[0] != "placeholder" {
		t.Fatalf("fallback not seeded: %+v", s)
	}
}

func TestBinding_UpdateSupersedesInFlightLoad(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	slow := func(ctx context.Context) (string, error) {
		close(slowStarted)
		<-slowRelease
		return "stale", nil
	}
	fast := func(ctx context.Context) (string, error) {
		return "fresh", nil
	}

	b := New(slow)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- b.Reload(ctx) }()
	<-slowStarted

	if err := b.Update(ctx, fast); err != nil {
		t.Fatalf("update: %v", err)
	}
	close(slowRelease)

	select {
	case err := <-errc:
		if !errors.Is(err, ErrSuperseded) {
			t.Fatalf("first load must report ErrSuperseded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first load never settled")
	}

	if s := b.State(); s.Data != "fresh" {
		t.Fatalf("superseded result must not overwrite the fresh one: %+v", s)
	}
}

func TestBinding_UnsubscribeStopsNotifications(t *testing.T) {
	b := New(func(ctx context.Context) (int, error) { return 1, nil })

	count := 0
	cancel := b.Subscribe(func(State[int]) { count++ })
	cancel()

	if err := b.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if count != 1 {
		t.Fatalf("only the initial snapshot should be delivered, got %d", count)
	}
}

func TestBinding_ConcurrentReloadsConverge(t *testing.T) {
	var n int64
	b := New(func(ctx context.Context) (string, error) {
		return fmt.Sprintf("v%d", atomic.AddInt64(&n, 1)), nil
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Reload(ctx)
		}()
	}
	wg.Wait()

	s := b.State()
	if s.Loading || s.Err != nil || s.Data == "" {
		t.Fatalf("state must settle after concurrent reloads: %+v", s)
	}
}
