package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscout/adscout/internal/api/client"
	"github.com/adscout/adscout/pkg/logger"
	domain "github.com/adscout/adscout/pkg/types"
)

type fakeAdsAPI struct {
	searchFn   func(context.Context, *client.AdListParams) (*client.AdList, error)
	featuredFn func(context.Context, *client.AdListParams) (*client.AdList, error)
	mineFn     func(context.Context, *client.AdListParams) (*client.AdList, error)
}

func (f *fakeAdsAPI) SearchAds(ctx context.Context, p *client.AdListParams) (*client.AdList, error) {
	return f.searchFn(ctx, p)
}

func (f *fakeAdsAPI) FeaturedAds(ctx context.Context, p *client.AdListParams) (*client.AdList, error) {
	return f.featuredFn(ctx, p)
}

func (f *fakeAdsAPI) MyAds(ctx context.Context, p *client.AdListParams) (*client.AdList, error) {
	return f.mineFn(ctx, p)
}

func paginatedList(count, totalPages, currentPage, items int) *client.AdList {
	results := make([]domain.Summary, items)
	return &client.AdList{
		Paginated:   true,
		Count:       count,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		Results:     results,
	}
}

func TestExecutor_ParamsMapping(t *testing.T) {
	t.Parallel()

	var got *client.AdListParams
	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, p *client.AdListParams) (*client.AdList, error) {
			got = p
			return paginatedList(0, 1, 1, 0), nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	c := Criteria{
		FreeText: "bike",
		Category: "3",
		City:     All,
		Sort:     SortPriceLow,
		Page:     2,
	}
	_, err := e.Execute(context.Background(), EndpointSearch, c)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "bike", got.Search)
	assert.Equal(t, 3, got.Category)
	assert.Equal(t, 0, got.City, "the all sentinel must be omitted")
	assert.Equal(t, "price_low", got.SortBy)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, DefaultPageSize, got.PageSize)
}

func TestExecutor_MostViewedSortOmitted(t *testing.T) {
	t.Parallel()

	var got *client.AdListParams
	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, p *client.AdListParams) (*client.AdList, error) {
			got = p
			return paginatedList(0, 1, 1, 0), nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	_, err := e.Execute(context.Background(), EndpointSearch, DefaultCriteria().WithSort(SortMostViewed))
	require.NoError(t, err)
	assert.Equal(t, "", got.SortBy)
}

func TestExecutor_NonNumericFilterOmitted(t *testing.T) {
	t.Parallel()

	var got *client.AdListParams
	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, p *client.AdListParams) (*client.AdList, error) {
			got = p
			return paginatedList(0, 1, 1, 0), nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	_, err := e.Execute(context.Background(), EndpointSearch, DefaultCriteria().WithCategory("electronics"))
	require.NoError(t, err)
	assert.Equal(t, 0, got.Category)
}

func TestExecutor_PaginatedEnvelope(t *testing.T) {
	t.Parallel()

	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, _ *client.AdListParams) (*client.AdList, error) {
			return paginatedList(45, 3, 2, 20), nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	page, err := e.Execute(context.Background(), EndpointSearch, DefaultCriteria().WithPage(2))
	require.NoError(t, err)

	assert.Equal(t, 45, page.TotalCount)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrevious)
	assert.Len(t, page.Items, 20)
}

func TestExecutor_DerivesMissingPageCounters(t *testing.T) {
	t.Parallel()

	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, _ *client.AdListParams) (*client.AdList, error) {
			return paginatedList(45, 0, 0, 20), nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	page, err := e.Execute(context.Background(), EndpointSearch, DefaultCriteria())
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages, "45 results at 20 per page is 3 pages")
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestExecutor_EmptyResultIsOnePage(t *testing.T) {
	t.Parallel()

	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, _ *client.AdListParams) (*client.AdList, error) {
			return paginatedList(0, 0, 0, 0), nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	page, err := e.Execute(context.Background(), EndpointSearch, DefaultCriteria())
	require.NoError(t, err)

	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.NotNil(t, page.Items)
}

func TestExecutor_BareArrayIsSingleUnpaginatedPage(t *testing.T) {
	t.Parallel()

	api := &fakeAdsAPI{
		featuredFn: func(_ context.Context, _ *client.AdListParams) (*client.AdList, error) {
			return &client.AdList{
				Count:   5,
				Results: make([]domain.Summary, 5),
			}, nil
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	page, err := e.Execute(context.Background(), EndpointFeatured, DefaultCriteria())
	require.NoError(t, err)

	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestExecutor_EndpointRouting(t *testing.T) {
	t.Parallel()

	var called string
	list := func(name string) func(context.Context, *client.AdListParams) (*client.AdList, error) {
		return func(_ context.Context, _ *client.AdListParams) (*client.AdList, error) {
			called = name
			return paginatedList(0, 1, 1, 0), nil
		}
	}
	api := &fakeAdsAPI{
		searchFn:   list("search"),
		featuredFn: list("featured"),
		mineFn:     list("mine"),
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	for _, endpoint := range []Endpoint{EndpointSearch, EndpointFeatured, EndpointMine} {
		_, err := e.Execute(context.Background(), endpoint, DefaultCriteria())
		require.NoError(t, err)
		assert.Equal(t, string(endpoint), called)
	}
}

func TestExecutor_WrapsErrors(t *testing.T) {
	t.Parallel()

	apiErr := errors.New("API server not reachable at http://localhost:8000")
	api := &fakeAdsAPI{
		searchFn: func(_ context.Context, _ *client.AdListParams) (*client.AdList, error) {
			return nil, apiErr
		},
	}
	e := NewExecutor(api, WithExecutorLogger(logger.Discard()))

	_, err := e.Execute(context.Background(), EndpointSearch, DefaultCriteria())
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
}
