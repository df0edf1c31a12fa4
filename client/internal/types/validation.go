package types

import (
	"fmt"
)

// ------------------------------
// Shared Errors
// ------------------------------

// ErrNotFound is returned when the backend reports 404 for an entity.
var ErrNotFound = fmt.Errorf("not found")

// ------------------------------
// Validation
// ------------------------------

// MaxPageSize mirrors the backend's page_size cap.
const MaxPageSize = 100

// ValidateCustomerID rejects non-positive customer IDs before any
// network round-trip is attempted.
func ValidateCustomerID(id int) error {
	if id <= 0 {
		return fmt.Errorf("customerId must be positive, got %d", id)
	}
	return nil
}

// ValidatePagination rejects out-of-range page parameters.
func ValidatePagination(page, pageSize int) error {
	if page < 0 {
		return fmt.Errorf("page must not be negative, got %d", page)
	}
	if pageSize < 0 || pageSize > MaxPageSize {
		return fmt.Errorf("pageSize must be in [0,%d], got %d", MaxPageSize, pageSize)
	}
	return nil
}

// ValidateFeedback checks the only hard requirement the backend
// enforces: a non-empty title and a known status when one is set.
func ValidateFeedback(req CreateFeedbackRequest) error {
	if req.Title == "" {
		return fmt.Errorf("feedback title cannot be empty")
	}
	switch req.Status {
	case "", FeedbackOpen, FeedbackInProgress, FeedbackResolved, FeedbackClosed:
		return nil
	default:
		return fmt.Errorf("unknown feedback status %q", req.Status)
	}
}
