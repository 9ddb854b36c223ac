package client

import (
	"context"

	domain "github.com/adscout/adscout/pkg/types"
)

const pathDashboardStats = "/api/ads/dashboard/stats/"

// DashboardStats fetches the aggregate statistics snapshot for the dashboard.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := c.get(ctx, pathDashboardStats, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
