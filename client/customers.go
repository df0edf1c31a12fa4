package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	cerrors "github.com/haikentcode/csmpilot-sub000/client/internal/errors"
	"github.com/haikentcode/csmpilot-sub000/client/internal/fetcher"
	"github.com/haikentcode/csmpilot-sub000/client/internal/types"
)

// Customer operations - all methods operate directly on Client

// customerKeyPrefix is the cache-key namespace for one customer. Every
// per-customer request key starts with it so InvalidateCustomer can evict
// with a single prefix scan.
func customerKeyPrefix(id int) string {
	return fmt.Sprintf("customers:%d:", id)
}

// get runs one GET through the resilient fetch pipeline and maps a
// backend 404 to ErrNotFound.
func (c *Client) get(ctx context.Context, key, rawURL string) ([]byte, error) {
	data, err := c.fetch.Do(ctx, fetcher.Request{Key: key, URL: rawURL})
	if err != nil {
		if cerrors.StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// ListCustomers returns one page of the customer list. Both backend
// pagination shapes are accepted and normalized into CustomerPage; rows
// get a sentiment derived from their health score.
func (c *Client) ListCustomers(ctx context.Context, params ListCustomersParams) (*CustomerPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePagination(params.Page, params.PageSize); err != nil {
		return nil, err
	}

	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Ordering != "" {
		q.Set("ordering", params.Ordering)
	}
	rawURL := c.baseURL + "/api/customers/"
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}

	key := fmt.Sprintf("customers:list:page=%d:size=%d:search=%s:ordering=%s",
		params.Page, params.PageSize, params.Search, params.Ordering)
	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return nil, err
	}

	page, err := types.DecodeCustomerPage(data, params.Page, params.PageSize)
	if err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	for i := range page.Customers {
		if page.Customers[i].Sentiment == "" {
			page.Customers[i].Sentiment = types.SentimentForHealth(page.Customers[i].HealthScore)
		}
	}
	return page, nil
}

// GetCustomer retrieves one customer record.
func (c *Client) GetCustomer(ctx context.Context, id int) (*CustomerDetail, error) {
	return c.customerDetail(ctx, id, "detail", fmt.Sprintf("%s/api/customers/%d/", c.baseURL, id))
}

// GetCustomerDashboard retrieves a customer with its nested feedback,
// meetings and metrics in one round-trip.
func (c *Client) GetCustomerDashboard(ctx context.Context, id int) (*CustomerDetail, error) {
	return c.customerDetail(ctx, id, "dashboard", fmt.Sprintf("%s/api/customers/%d/dashboard/", c.baseURL, id))
}

func (c *Client) customerDetail(ctx context.Context, id int, kind, rawURL string) (*CustomerDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateCustomerID(id); err != nil {
		return nil, err
	}
	key := customerKeyPrefix(id) + kind
	data, err := c.get(ctx, key, rawURL)
	if err != nil {
		return nil, err
	}
	var detail CustomerDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, cerrors.NewDecodeError(key, err)
	}
	if detail.Sentiment == "" {
		if detail.Metrics != nil {
			detail.Sentiment = types.DeriveSentiment(detail.Metrics.NPS)
		} else {
			detail.Sentiment = types.SentimentForHealth(detail.HealthScore)
		}
	}
	return &detail, nil
}
