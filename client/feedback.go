package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/fetcher"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// Feedback operations - all methods operate directly on Client

// ListFeedback returns the feedback items tracked for a customer.
func (c *Client) ListFeedback(ctx context.Context, customerID int) ([]Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	key := customerKeyPrefix(customerID) + "feedback"
	rawURL := fmt.Sprintf("%s/api/customers/%d/feedback/", c.baseURL, customerID)
	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return nil, err
	}
	items, err := types.DecodeList[Feedback](data)
	if err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	return items, nil
}

// CreateFeedback records a new feedback item for a customer. On success
// every cached response for the customer is evicted so the next read
// reflects the new item.
func (c *Client) CreateFeedback(ctx context.Context, customerID int, req CreateFeedbackRequest) (*Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	if err := types.ValidateFeedback(req); err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	key := customerKeyPrefix(customerID) + "feedback:create"
	data, err := c.fetch.Do(ctx, fetcher.Request{
		Key:       key,
		Method:    http.MethodPost,
		URL:       fmt.Sprintf("%s/api/customers/%d/feedback/", c.baseURL, customerID),
		Body:      body,
		SkipCache: true,
	})
	if err != nil {
		if cerrors.StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: customer %d", ErrNotFound, customerID)
		}
		return nil, err
	}

	var created Feedback
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	c.InvalidateCustomer(customerID)
	return &created, nil
}
