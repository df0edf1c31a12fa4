package client

import (
	"errors"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/requestqueue"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// --------------------------------------------------------------------
// Public errors & helpers
// --------------------------------------------------------------------

// ErrNotFound is returned when the backend reports 404 for an entity.
var ErrNotFound = types.ErrNotFound

// ErrBackPressure is returned when the client's internal request queue is full.
var ErrBackPressure = requestqueue.ErrQueueFull

// ErrClosed is returned when an operation is attempted after Close.
var ErrClosed = requestqueue.ErrQueueClosed

// IsNotFound reports whether err means the entity does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsBackPressure reports whether err is a back-pressure error.
func IsBackPressure(err error) bool { return errors.Is(err, ErrBackPressure) }

// IsRateLimited reports whether err is a backend 429 that survived retries.
func IsRateLimited(err error) bool { return cerrors.IsRateLimited(err) }

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int { return cerrors.StatusCode(err) }
