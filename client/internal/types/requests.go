package types

// ------------------------------
// Request Types
// ------------------------------

// ListCustomersParams controls pagination, filtering and ordering of the
// customer list. Zero values fall back to backend defaults.
type ListCustomersParams struct {
	Page     int
	PageSize int
	Search   string // matches name and industry
	Ordering string // e.g. "-arr", "renewal_date"
}

// CreateFeedbackRequest creates a feedback item for a customer.
type CreateFeedbackRequest struct {
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}
