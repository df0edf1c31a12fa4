package types

import (
	"encoding/json"
	"fmt"
)

// ------------------------------
// Response Types
// ------------------------------

// CustomerPage is the canonical internal form of a customer list page.
// Both backend pagination shapes are normalized into it at the boundary.
type CustomerPage struct {
	Customers  []Customer `json:"customers"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
}

// drfPage is the conventional DRF pagination envelope.
type drfPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
}

// legacyPage is the pre-DRF envelope some deployments still return.
type legacyPage struct {
	Customers  json.RawMessage `json:"customers"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// DecodeCustomerPage normalizes either pagination variant into a
// CustomerPage. page and perPage are the requested values, used to fill
// fields the DRF shape does not carry.
func DecodeCustomerPage(data []byte, page, perPage int) (*CustomerPage, error) {
	var probe struct {
		Results   json.RawMessage `json:"results"`
		Customers json.RawMessage `json:"customers"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("customer page: %w", err)
	}

	switch {
	case probe.Results != nil:
		var env drfPage
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("customer page (drf): %w", err)
		}
		var customers []Customer
		if err := json.Unmarshal(env.Results, &customers); err != nil {
			return nil, fmt.Errorf("customer page results: %w", err)
		}
		if page <= 0 {
			page = 1
		}
		if perPage <= 0 {
			perPage = len(customers)
		}
		totalPages := 0
		if perPage > 0 {
			totalPages = (env.Count + perPage - 1) / perPage
		}
		return &CustomerPage{
			Customers:  customers,
			Total:      env.Count,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		}, nil

	case probe.Customers != nil:
		var env legacyPage
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("customer page (legacy): %w", err)
		}
		var customers []Customer
		if err := json.Unmarshal(env.Customers, &customers); err != nil {
			return nil, fmt.Errorf("customer page customers: %w", err)
		}
		return &CustomerPage{
			Customers:  customers,
			Total:      env.Total,
			Page:       env.Page,
			PerPage:    env.PerPage,
			TotalPages: env.TotalPages,
		}, nil

	default:
		return nil, fmt.Errorf("customer page: unrecognized pagination shape")
	}
}

// DecodeList accepts either a bare JSON array or a DRF envelope whose
// results field holds the array. Detail collections (feedback, meetings,
// gong meetings) arrive in both shapes depending on the endpoint.
func DecodeList[T any](data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var env struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("list payload: %w", err)
	}
	if env.Results == nil {
		return nil, fmt.Errorf("list payload: neither array nor results envelope")
	}
	return env.Results, nil
}
