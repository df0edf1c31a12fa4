package client

import (
	"context"
	"fmt"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// Gong call-recording operations - all methods operate directly on Client

// ListGongMeetings returns the recorded calls for a customer, including
// the AI-extracted insights attached by the ingestion pipeline.
func (c *Client) ListGongMeetings(ctx context.Context, customerID int) ([]GongMeeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	key := customerKeyPrefix(customerID) + "gong"
	rawURL := fmt.Sprintf("%s/api/gong/meetings/?customer=%d", c.baseURL, customerID)
	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return nil, err
	}
	items, err := types.DecodeList[GongMeeting](data)
	if err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	return items, nil
}
