package requestqueue

import (
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by Submit after Stop has been called.
var ErrQueueClosed = errors.New("requestqueue: queue closed")

// ErrQueueFull is the sentinel matched by errors.Is for back-pressure
// failures; the concrete error is *QueueFullError.
var ErrQueueFull = errors.New("requestqueue: queue full")

// QueueFullError reports that the queue stayed full for the whole
// enqueue timeout.
type QueueFullError struct {
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("requestqueue: queue full (%d/%d)", e.Length, e.Capacity)
}

// Is lets errors.Is(err, ErrQueueFull) match a *QueueFullError.
func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }
