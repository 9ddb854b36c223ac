package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adscout/adscout/internal/config"
	"github.com/adscout/adscout/internal/refdata"
)

// newRefDataCache builds the reference-data cache, with the on-disk snapshot
// when one is configured.
func newRefDataCache(cfg *config.Config) (*refdata.Cache, error) {
	opts := []refdata.CacheOption{
		refdata.WithCacheLogger(newLogger(cfg)),
	}
	if cfg.RefData.SnapshotPath != "" {
		opts = append(opts, refdata.WithSnapshot(cfg.RefData.SnapshotPath))
	}
	return refdata.NewCache(newClient(cfg), opts...)
}

func runRefData(ctx context.Context, refresh bool,
	fn func(ctx context.Context, cache *refdata.Cache, useCache bool) error,
) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cache, err := newRefDataCache(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	return fn(ctx, cache, !refresh)
}

func categoriesCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List listing categories",
		Example: `  adscout categories
  adscout categories --refresh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefData(cmd.Context(), refresh,
				func(ctx context.Context, cache *refdata.Cache, useCache bool) error {
					categories, err := cache.Categories(ctx, useCache)
					if err != nil {
						return err
					}
					if jsonOutput() {
						return outputJSON(categories)
					}
					return printCategoriesTable(categories)
				})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached value")

	return cmd
}

func citiesCmd() *cobra.Command {
	var (
		refresh   bool
		stateCode string
	)

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List cities",
		Long:  "List cities, optionally scoped to one state by its code.",
		Example: `  adscout cities
  adscout cities --state IL`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefData(cmd.Context(), refresh,
				func(ctx context.Context, cache *refdata.Cache, useCache bool) error {
					cities, err := cache.Cities(ctx, strings.ToUpper(stateCode), useCache)
					if err != nil {
						return err
					}
					if jsonOutput() {
						return outputJSON(cities)
					}
					return printCitiesTable(cities)
				})
		},
	}
	cmd.Flags().StringVar(&stateCode, "state", "", "state code filter (e.g. IL)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached value")

	return cmd
}

func statesCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:     "states",
		Short:   "List states",
		Example: `  adscout states`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefData(cmd.Context(), refresh,
				func(ctx context.Context, cache *refdata.Cache, useCache bool) error {
					states, err := cache.States(ctx, useCache)
					if err != nil {
						return err
					}
					if jsonOutput() {
						return outputJSON(states)
					}
					return printStatesTable(states)
				})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached value")

	return cmd
}
