package client

import (
	"context"
	"fmt"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// Meeting operations - all methods operate directly on Client

// ListMeetings returns the CSM-logged meetings for a customer.
func (c *Client) ListMeetings(ctx context.Context, customerID int) ([]Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(customerID); err != nil {
		return nil, err
	}
	key := customerKeyPrefix(customerID) + "meetings"
	rawURL := fmt.Sprintf("%s/api/customers/%d/meetings/", c.baseURL, customerID)
	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return nil, err
	}
	items, err := types.DecodeList[Meeting](data)
	if err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	return items, nil
}
