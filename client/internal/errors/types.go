// Package errors provides error classification for the client SDK.
// This enables different retry policies based on error recoverability.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors should be retried with exponential backoff.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors should fail immediately without retry.
	// Examples: 401 Unauthorized, 403 Forbidden, 400 Bad Request.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps an error with categorization metadata for retry policies.
type ClassifiedError struct {
	Category   ErrorCategory
	StatusCode int           // HTTP status code (0 for non-HTTP errors)
	RetryAfter time.Duration // Server-requested wait, parsed from Retry-After (0 if absent)
	Body       string        // Response body for debugging
	Underlying error         // The original error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}

// IsRateLimited returns true if the error is an HTTP 429 response.
func IsRateLimited(err error) bool {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.StatusCode == 429
	}
	return false
}

// StatusCode extracts the HTTP status from a classified error chain.
// Returns 0 for non-HTTP errors.
func StatusCode(err error) int {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.StatusCode
	}
	return 0
}

// RetryAfterHint extracts the server-requested wait from a classified
// error chain. Returns 0 when the server did not send one.
func RetryAfterHint(err error) time.Duration {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified.RetryAfter
	}
	return 0
}
