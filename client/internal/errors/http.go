package errors

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ClassifyHTTPError determines whether an HTTP error should be retried.
// Retry policy:
// - 4xx client errors (except 408 and 429) are irrecoverable
// - 5xx server errors are recoverable
// - Network-level errors are recoverable
// retryAfter is the raw Retry-After header value and may be empty.
func ClassifyHTTPError(statusCode int, retryAfter, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   getHTTPErrorCategory(statusCode),
		StatusCode: statusCode,
		RetryAfter: ParseRetryAfter(retryAfter),
		Body:       body,
		Underlying: underlyingErr,
	}
}

// getHTTPErrorCategory maps HTTP status codes to error categories.
func getHTTPErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case http.StatusRequestTimeout: // can retry
			return Recoverable
		case http.StatusTooManyRequests: // retry after the server-requested wait
			return Recoverable
		default:
			// 400 Bad Request, 401 Unauthorized, 403 Forbidden, 404 Not Found, etc.
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		// Unexpected status codes - be conservative and retry
		return Recoverable
	}
}

// ParseRetryAfter parses a Retry-After header value, which is either a
// delay in seconds or an HTTP-date. Returns 0 when the value is absent
// or unparseable.
func ParseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// NewHTTPError creates a classified error for HTTP failures.
// This is a convenience function for the fetch layer.
func NewHTTPError(statusCode int, retryAfter, body, operation string) *ClassifiedError {
	underlyingErr := fmt.Errorf("%s failed: HTTP %d", operation, statusCode)
	return ClassifyHTTPError(statusCode, retryAfter, body, underlyingErr)
}

// NewNetworkError creates a classified error for network-level failures.
// Network errors are always recoverable as they may be transient.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		StatusCode: 0,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

// NewDecodeError creates a classified error for a malformed response body
// on an otherwise successful HTTP call. The call is treated as a failure
// so callers can take their fallback path, but it is not retried: the
// server already answered and a replay is unlikely to parse differently.
func NewDecodeError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		StatusCode: 0,
		Underlying: fmt.Errorf("%s returned malformed payload: %w", operation, err),
	}
}
