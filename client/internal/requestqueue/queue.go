// Package requestqueue serializes outbound API calls through a single
// worker so that at most one physical request is in flight at a time and
// consecutive request starts are spaced by a minimum interval.
//
// Operations drain strictly in FIFO order. The queue does not retry; the
// caller decides what a failed operation means.
package requestqueue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// Queue executes Jobs one at a time in submission order, pacing starts
// with a rate limiter so the backend never sees bursts.
type Queue struct {
	cfg     Config
	jobs    chan queuedJob
	limiter *rate.Limiter

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 → running, 1 → closed

	wg sync.WaitGroup
}

// New constructs the queue and starts its worker.
func New(cfg Config) *Queue {
	// Apply zero-value defaults.
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 100 * time.Millisecond
	}

	q := &Queue{
		cfg:     cfg,
		jobs:    make(chan queuedJob, cfg.QueueSize),
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		done:    make(chan struct{}),
	}
	q.wg.Add(1)
	go q.runWorker()
	return q
}

// Submit enqueues job for execution.
//
//   - Returns nil on success.
//   - Returns ErrQueueClosed if the queue is stopped.
//   - Returns a *QueueFullError (matches ErrQueueFull) if the queue is
//     still full after EnqueueTimeout elapses.
//   - Returns ctx.Err() if the caller-provided context is cancelled first.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	// Fast check to avoid accepting work after Stop().
	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrQueueClosed
	}
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case q.jobs <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.Inc()
		queueDepth.Set(float64(len(q.jobs)))
		return nil

	case <-q.done: // Stop() may be called while waiting for space
		return ErrQueueClosed

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		queueFullTotal.Inc()
		return &QueueFullError{Length: len(q.jobs), Capacity: cap(q.jobs)}
	}
}

// Barrier enqueues a no-op job and waits until it runs, ensuring all
// previously submitted jobs have completed.
func (q *Queue) Barrier(ctx context.Context) error {
	ran := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(ran)
		return nil
	})
	if err := q.Submit(ctx, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ran:
		return nil
	}
}

// Stop signals the worker to finish draining its queue, waits for it to
// terminate, and then returns. Idempotent and safe for concurrent use.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return // already closed
	}
	close(q.done)
	q.wg.Wait()
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (q *Queue) runWorker() {
	defer q.wg.Done()

	// Protect the worker from a panicking job.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("requestqueue: worker panic")
		}
	}()

	for {
		select {
		case qj := <-q.jobs:
			q.runOne(qj, true)
			queueDepth.Set(float64(len(q.jobs)))

		case <-q.done:
			// Drain remaining jobs, preserving FIFO, then exit.
			for {
				select {
				case qj := <-q.jobs:
					q.runOne(qj, false)
				default:
					queueDepth.Set(0)
					return
				}
			}
		}
	}
}

// runOne executes a single dequeued job. When paced is true the start is
// delayed until the limiter grants a slot, which enforces the minimum
// inter-request interval; the drain path skips pacing.
func (q *Queue) runOne(qj queuedJob, paced bool) {
	if qj.job == nil {
		return
	}
	// A cancelled job must not stall the worker.
	if qj.ctx.Err() != nil {
		return
	}
	if paced {
		if err := q.limiter.Wait(qj.ctx); err != nil {
			return // caller gave up while throttled
		}
	}
	start := time.Now()
	_ = qj.job.Run(qj.ctx)
	runDuration.Observe(time.Since(start).Seconds())
}
