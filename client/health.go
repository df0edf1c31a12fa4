package client

import (
	"context"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// HealthSummary returns the portfolio's health-score distribution.
func (c *Client) HealthSummary(ctx context.Context) ([]HealthBucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	const key = "customers:health-summary"
	data, err := c.get(ctx, key, c.baseURL+"/api/customers/health-summary/")
	if err != nil {
		return nil, err
	}
	buckets, err := types.DecodeList[HealthBucket](data)
	if err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	return buckets, nil
}
