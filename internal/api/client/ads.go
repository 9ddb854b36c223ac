package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/adscout/adscout/pkg/types"
)

// List endpoint paths.
const (
	pathAds      = "/api/ads/ads/"
	pathFeatured = "/api/ads/ads/featured/"
	pathMyAds    = "/api/ads/ads/my_ads/"
)

// AdList is the paginated ads envelope. The list endpoints are not guaranteed
// to answer with identical shapes: the general search returns a full paginated
// object, the featured endpoint may return a bare array, and an empty body
// means zero results. UnmarshalJSON accepts all three.
type AdList struct {
	Count       int
	Next        string
	Previous    string
	TotalPages  int
	CurrentPage int
	Results     []domain.Summary

	// Paginated reports whether the server answered with the full envelope.
	// A bare array or an empty body is a single unpaginated page.
	Paginated bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *AdList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = AdList{}
		return nil
	}

	if trimmed[0] == '[' {
		var items []domain.Summary
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decoding bare ad array: %w", err)
		}
		*l = AdList{Count: len(items), Results: items}
		return nil
	}

	var env struct {
		Count       int              `json:"count"`
		Next        *string          `json:"next"`
		Previous    *string          `json:"previous"`
		TotalPages  int              `json:"total_pages"`
		CurrentPage int              `json:"current_page"`
		Results     []domain.Summary `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("decoding ad envelope: %w", err)
	}

	*l = AdList{
		Paginated:   true,
		Count:       env.Count,
		TotalPages:  env.TotalPages,
		CurrentPage: env.CurrentPage,
		Results:     env.Results,
	}
	if env.Next != nil {
		l.Next = *env.Next
	}
	if env.Previous != nil {
		l.Previous = *env.Previous
	}
	return nil
}

// AdListParams defines the wire-level query parameters for ad list endpoints.
// Zero values are omitted from the query string.
type AdListParams struct {
	Search   string
	Category int
	City     int
	SortBy   string
	Page     int
	PageSize int
}

func (p *AdListParams) encode() string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Category > 0 {
		q.Set("category", strconv.Itoa(p.Category))
	}
	if p.City > 0 {
		q.Set("city", strconv.Itoa(p.City))
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// SearchAds queries the general ad list endpoint.
func (c *Client) SearchAds(ctx context.Context, params *AdListParams) (*AdList, error) {
	return c.listAds(ctx, pathAds, params)
}

// FeaturedAds queries the featured-only ad endpoint.
func (c *Client) FeaturedAds(ctx context.Context, params *AdListParams) (*AdList, error) {
	return c.listAds(ctx, pathFeatured, params)
}

// MyAds queries the authenticated user's own ads.
func (c *Client) MyAds(ctx context.Context, params *AdListParams) (*AdList, error) {
	return c.listAds(ctx, pathMyAds, params)
}

func (c *Client) listAds(ctx context.Context, path string, params *AdListParams) (*AdList, error) {
	if params != nil {
		path += params.encode()
	}

	var list AdList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetAd fetches the authoritative detail record for a listing by its slug.
func (c *Client) GetAd(ctx context.Context, slug string) (*domain.Detail, error) {
	var d domain.Detail
	if err := c.get(ctx, fmt.Sprintf("/api/ads/ads/%s/", url.PathEscape(slug)), &d); err != nil {
		return nil, err
	}
	return &d, nil
}
