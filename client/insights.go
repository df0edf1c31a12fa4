package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// AI insight operations - all methods operate directly on Client
//
// These endpoints depend on the backend's AI pipeline being configured.
// In demo mode they degrade to canned fallback content after retries are
// exhausted instead of surfacing the terminal error.

// GetProfileSummary returns the AI-written account narrative.
func (c *Client) GetProfileSummary(ctx context.Context, customerID int) (*ProfileSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	key := customerKeyPrefix(customerID) + "profile-summary"
	rawURL := fmt.Sprintf("%s/api/customers/%d/profile-summary/", c.baseURL, customerID)

	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return c.profileFallback(customerID, err)
	}
	var summary ProfileSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return c.profileFallback(customerID, cerrors.NewDecodeError(key, err))
	}
	if summary.Summary == "" {
		return c.profileFallback(customerID, cerrors.NewDecodeError(key, fmt.Errorf("missing summary field")))
	}
	return &summary, nil
}

func (c *Client) profileFallback(customerID int, err error) (*ProfileSummary, error) {
	if !c.demoMode || IsNotFound(err) {
		return nil, err
	}
	fallbacksTotal.WithLabelValues("profile_summary").Inc()
	log.Warn().Err(err).Int("customer_id", customerID).Msg("profile summary unavailable, serving fallback")
	return fallbackProfileSummary(), nil
}

// GetSimilarCustomers returns up to topK peer accounts ranked by
// similarity score. topK <= 0 uses the backend default of 5.
func (c *Client) GetSimilarCustomers(ctx context.Context, customerID, topK int) ([]SimilarCustomer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}
	key := fmt.Sprintf("%ssimilar:top_k=%d", customerKeyPrefix(customerID), topK)
	rawURL := fmt.Sprintf("%s/api/customers/%d/similar/?top_k=%d", c.baseURL, customerID, topK)

	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return c.similarFallback(customerID, topK, err)
	}
	items, err := types.DecodeList[SimilarCustomer](data)
	if err != nil {
		return c.similarFallback(customerID, topK, cerrors.NewDecodeError(key, err))
	}
	return items, nil
}

func (c *Client) similarFallback(customerID, topK int, err error) ([]SimilarCustomer, error) {
	if !c.demoMode || IsNotFound(err) {
		return nil, err
	}
	fallbacksTotal.WithLabelValues("similar_customers").Inc()
	log.Warn().Err(err).Int("customer_id", customerID).Msg("similar customers unavailable, serving fallback")
	return fallbackSimilarCustomers(topK), nil
}
