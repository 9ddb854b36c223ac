package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adscout/adscout/internal/query"
)

type searchFlags struct {
	category string
	city     string
	sort     string
	page     int
	location string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "category id filter")
	cmd.Flags().StringVar(&f.city, "city", "", "city id filter")
	cmd.Flags().StringVar(&f.sort, "sort", "",
		"sort order (newest, oldest, alphabetical, price_low, price_high)")
	cmd.Flags().IntVar(&f.page, "page", 1, "result page")
	cmd.Flags().StringVar(&f.location, "location", "",
		`criteria as a shared query string, e.g. "search=bike&category=3&page=2"`)
}

// criteria builds search criteria from the flags. A --location query string
// is the starting point when given; explicit flags override it.
func (f *searchFlags) criteria(freeText string) query.Criteria {
	c := query.ParseQuery(f.location)
	if freeText != "" {
		c = c.WithFreeText(freeText)
	}
	if f.category != "" {
		c = c.WithCategory(f.category)
	}
	if f.city != "" {
		c = c.WithCity(f.city)
	}
	if f.sort != "" {
		c = c.WithSort(query.SortKey(f.sort))
	}
	if f.page > 1 {
		c = c.WithPage(f.page)
	}
	return c
}

func searchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search marketplace listings",
		Long: "Search listings with optional free text, category, city, sort\n" +
			"order, and pagination.",
		Example: `  adscout search "mountain bike"
  adscout search --category 3 --city 12 --sort price_low
  adscout search "bike" --page 2
  adscout search --location "search=bike&category=3&page=2"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freeText := ""
			if len(args) == 1 {
				freeText = args[0]
			}
			return runListQuery(cmd.Context(), query.EndpointSearch, flags.criteria(freeText))
		},
	}
	flags.register(cmd)

	return cmd
}

func featuredCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List featured listings",
		Example: `  adscout featured
  adscout featured --category 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListQuery(cmd.Context(), query.EndpointFeatured, flags.criteria(""))
		},
	}
	flags.register(cmd)

	return cmd
}

func mineCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List your own listings",
		Long:  "List the authenticated user's own listings. Requires --token.",
		Example: `  adscout mine --token $ADSCOUT_TOKEN
  adscout mine --sort oldest --page 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListQuery(cmd.Context(), query.EndpointMine, flags.criteria(""))
		},
	}
	flags.register(cmd)

	return cmd
}

func runListQuery(ctx context.Context, endpoint query.Endpoint, c query.Criteria) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exec := query.NewExecutor(newClient(cfg),
		query.WithPageSize(cfg.Search.PageSize),
		query.WithExecutorLogger(newLogger(cfg)),
	)

	page, err := exec.Execute(ctx, endpoint, c)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(page)
	}

	if len(page.Items) == 0 {
		fmt.Println("No listings found.")
		return nil
	}
	return printAdsPage(page)
}
