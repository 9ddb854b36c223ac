package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/adscout/adscout/internal/api/client"
	"github.com/adscout/adscout/internal/metrics"
	domain "github.com/adscout/adscout/pkg/types"
)

// Endpoint selects which ad list the executor queries.
type Endpoint string

// Endpoint constants.
const (
	EndpointSearch   Endpoint = "search"
	EndpointFeatured Endpoint = "featured"
	EndpointMine     Endpoint = "mine"
)

// AdsAPI is the subset of the API client the executor depends on.
type AdsAPI interface {
	SearchAds(ctx context.Context, params *client.AdListParams) (*client.AdList, error)
	FeaturedAds(ctx context.Context, params *client.AdListParams) (*client.AdList, error)
	MyAds(ctx context.Context, params *client.AdListParams) (*client.AdList, error)
}

// DefaultPageSize is the fixed number of results requested per page.
const DefaultPageSize = 20

// Executor translates criteria into wire-level list requests and normalizes
// whatever envelope comes back into a uniform page.
type Executor struct {
	api      AdsAPI
	pageSize int
	log      *slog.Logger
}

// ExecutorOption configures the Executor.
type ExecutorOption func(*Executor)

// WithPageSize overrides the requested page size.
func WithPageSize(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.log = l
	}
}

// NewExecutor creates an Executor backed by the given API client.
func NewExecutor(api AdsAPI, opts ...ExecutorOption) *Executor {
	e := &Executor{
		api:      api,
		pageSize: DefaultPageSize,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the criteria against the chosen endpoint and returns a
// normalized result page.
func (e *Executor) Execute(ctx context.Context, endpoint Endpoint, c Criteria) (*domain.Page[domain.Summary], error) {
	params := e.params(c)

	start := time.Now()
	var (
		list *client.AdList
		err  error
	)
	switch endpoint {
	case EndpointFeatured:
		list, err = e.api.FeaturedAds(ctx, params)
	case EndpointMine:
		list, err = e.api.MyAds(ctx, params)
	default:
		list, err = e.api.SearchAds(ctx, params)
	}
	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	metrics.QueriesTotal.WithLabelValues(string(endpoint)).Inc()
	if err != nil {
		metrics.QueryErrorsTotal.WithLabelValues(string(endpoint)).Inc()
		return nil, fmt.Errorf("executing %s query: %w", endpoint, err)
	}

	page := e.normalize(list, c.Page)
	e.log.Debug("query executed",
		"endpoint", string(endpoint),
		"page", page.CurrentPage,
		"of", page.TotalPages,
		"items", len(page.Items),
		"total", page.TotalCount,
	)
	return page, nil
}

// params maps criteria onto wire parameters. The "all" sentinel and empty
// values are omitted entirely, as is a most-viewed sort, which the server
// does not order by.
func (e *Executor) params(c Criteria) *client.AdListParams {
	p := &client.AdListParams{
		Search:   c.FreeText,
		Page:     c.Page,
		PageSize: e.pageSize,
	}
	if id, ok := numericFilter(c.Category); ok {
		p.Category = id
	}
	if id, ok := numericFilter(c.City); ok {
		p.City = id
	}
	if c.Sort != "" && c.Sort != SortMostViewed {
		p.SortBy = string(c.Sort)
	}
	return p
}

func numericFilter(v string) (int, bool) {
	if v == "" || v == All {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// normalize derives the uniform page view. A paginated envelope keeps the
// server's own page counters, falling back to deriving them from the total
// count when absent; a bare array is a single page with no further pages.
func (e *Executor) normalize(list *client.AdList, requested int) *domain.Page[domain.Summary] {
	items := list.Results
	if items == nil {
		items = []domain.Summary{}
	}

	if !list.Paginated {
		return &domain.Page[domain.Summary]{
			Items:       items,
			TotalCount:  len(items),
			CurrentPage: 1,
			TotalPages:  1,
		}
	}

	totalPages := list.TotalPages
	if totalPages < 1 {
		totalPages = (list.Count + e.pageSize - 1) / e.pageSize
		if totalPages < 1 {
			totalPages = 1
		}
	}
	current := list.CurrentPage
	if current < 1 {
		current = requested
	}
	if current < 1 {
		current = 1
	}

	return &domain.Page[domain.Summary]{
		Items:       items,
		TotalCount:  list.Count,
		CurrentPage: current,
		TotalPages:  totalPages,
		HasNext:     current < totalPages,
		HasPrevious: current > 1,
	}
}
