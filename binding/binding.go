// Package binding adapts SDK calls into observable view state. A Binding
// wraps one fetch operation and exposes {data, loading, error} snapshots
// plus reload/retry triggers, so presentation code subscribes to state
// changes instead of performing requests itself.
package binding

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by a load whose result was discarded because
// a newer load started under the same binding before it finished.
var ErrSuperseded = errors.New("binding: load superseded")

// FetchFunc produces the bound value. Implementations are usually thin
// closures over an SDK method.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is one immutable snapshot of a binding.
type State[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// Binding owns the state for one fetch operation. Loads may be triggered
// from any goroutine; when loads overlap, the latest one wins and earlier
// completions are discarded.
type Binding[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	state   State[T]
	gen     uint64
	subs    map[int]func(State[T])
	nextSub int
}

// Option customizes a Binding during New().
type Option[T any] func(*Binding[T])

// WithFallback seeds the binding's data so observers have content to
// render before the first load completes.
func WithFallback[T any](data T) Option[T] {
	return func(b *Binding[T]) {
		b.state.Data = data
	}
}

// New constructs a Binding around fetch. No load is started; call Reload.
func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Binding[T] {
	b := &Binding[T]{
		fetch: fetch,
		subs:  make(map[int]func(State[T])),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current snapshot.
func (b *Binding[T]) State() State[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Subscribe registers fn to run after every state change, and calls it
// once immediately with the current snapshot. The returned function
// removes the subscription. Callbacks run outside the binding's lock, on
// the goroutine that triggered the change.
func (b *Binding[T]) Subscribe(fn func(State[T])) (cancel func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	current := b.state
	b.mu.Unlock()

	fn(current)
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Reload fetches the value and publishes the outcome. It blocks until
// the fetch settles; run it in a goroutine for fire-and-forget loads.
func (b *Binding[T]) Reload(ctx context.Context) error {
	b.mu.Lock()
	fetch := b.fetch
	b.mu.Unlock()
	return b.load(ctx, fetch)
}

// Retry clears a previous error and reloads unconditionally.
func (b *Binding[T]) Retry(ctx context.Context) error {
	b.mu.Lock()
	b.state.Err = nil
	fetch := b.fetch
	state, fns := b.snapshotLocked()
	b.mu.Unlock()
	notify(state, fns)

	return b.load(ctx, fetch)
}

// Update swaps the fetch operation (a dependency changed, for example a
// different customer was selected) and reloads. Any load still in flight
// for the previous dependencies is superseded and its result discarded.
func (b *Binding[T]) Update(ctx context.Context, fetch FetchFunc[T]) error {
	b.mu.Lock()
	b.fetch = fetch
	b.mu.Unlock()
	return b.load(ctx, fetch)
}

// ------------------------- internals -------------------------

func (b *Binding[T]) load(ctx context.Context, fetch FetchFunc[T]) error {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.state.Loading = true
	state, fns := b.snapshotLocked()
	b.mu.Unlock()
	notify(state, fns)

	data, err := fetch(ctx)

	b.mu.Lock()
	if b.gen != gen {
		// A newer load started while this one ran; keep its state.
		b.mu.Unlock()
		return ErrSuperseded
	}
	b.state.Loading = false
	if err != nil {
		b.state.Err = err
	} else {
		b.state.Data = data
		b.state.Err = nil
	}
	state, fns = b.snapshotLocked()
	b.mu.Unlock()
	notify(state, fns)
	return err
}

// snapshotLocked copies the state and subscriber callbacks so they can be
// delivered without holding b.mu; a subscriber may call back into the
// binding.
func (b *Binding[T]) snapshotLocked() (State[T], []func(State[T])) {
	fns := make([]func(State[T]), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	return b.state, fns
}

func notify[T any](state State[T], fns []func(State[T])) {
	for _, fn := range fns {
		fn(state)
	}
}
