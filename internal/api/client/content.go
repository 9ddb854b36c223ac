package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	domain "github.com/adscout/adscout/pkg/types"
)

// Reference-data endpoint paths.
const (
	pathCategories = "/api/content/categories/"
	pathCities     = "/api/content/cities/"
	pathStates     = "/api/content/states/"
)

// collection unwraps reference-data responses, which may arrive either as a
// bare array or wrapped in the same paginated envelope the ad endpoints use.
type collection[T any] struct {
	Items []T
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *collection[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		c.Items = nil
		return nil
	}

	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &c.Items)
	}

	var env struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("decoding collection envelope: %w", err)
	}
	c.Items = env.Results
	return nil
}

// Categories fetches all ad categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var coll collection[domain.Category]
	if err := c.get(ctx, pathCategories, &coll); err != nil {
		return nil, err
	}
	return coll.Items, nil
}

// Cities fetches cities, optionally narrowed to one state code.
func (c *Client) Cities(ctx context.Context, stateCode string) ([]domain.City, error) {
	path := pathCities
	if stateCode != "" {
		path += "?state=" + url.QueryEscape(stateCode)
	}

	var coll collection[domain.City]
	if err := c.get(ctx, path, &coll); err != nil {
		return nil, err
	}
	return coll.Items, nil
}

// States fetches all states.
func (c *Client) States(ctx context.Context) ([]domain.State, error) {
	var coll collection[domain.State]
	if err := c.get(ctx, pathStates, &coll); err != nil {
		return nil, err
	}
	return coll.Items, nil
}
