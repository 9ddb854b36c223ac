// Package query implements the listing query pipeline: the canonical search
// criteria value, its synchronization with a navigable location, fetch
// scheduling with debounce and supersession, and normalization of paginated
// results.
package query

// SortKey enumerates the supported result orderings.
type SortKey string

// Sort key constants.
const (
	SortNewest       SortKey = "newest"
	SortOldest       SortKey = "oldest"
	SortAlphabetical SortKey = "alphabetical"
	SortPriceLow     SortKey = "price_low"
	SortPriceHigh    SortKey = "price_high"
	SortMostViewed   SortKey = "most_viewed"
)

// All is the filter value meaning "no restriction" for category and city.
const All = "all"

// Criteria is the canonical, in-memory representation of a search intent:
// free-text query, category, city, sort order and page number.
type Criteria struct {
	FreeText string
	Category string // category id, or All
	City     string // city id, or All
	Sort     SortKey
	Page     int
}

// DefaultCriteria returns the criteria of a pristine search view.
func DefaultCriteria() Criteria {
	return Criteria{
		Category: All,
		City:     All,
		Sort:     SortNewest,
		Page:     1,
	}
}

// Equal reports whether two criteria are structurally identical.
func (c Criteria) Equal(o Criteria) bool {
	return c == o
}

// WithFreeText returns a copy with the free-text query replaced and the page
// reset to 1.
func (c Criteria) WithFreeText(text string) Criteria {
	c.FreeText = text
	c.Page = 1
	return c
}

// WithCategory returns a copy with the category filter replaced and the page
// reset to 1. An empty id means All.
func (c Criteria) WithCategory(id string) Criteria {
	if id == "" {
		id = All
	}
	c.Category = id
	c.Page = 1
	return c
}

// WithCity returns a copy with the city filter replaced and the page reset
// to 1. An empty id means All.
func (c Criteria) WithCity(id string) Criteria {
	if id == "" {
		id = All
	}
	c.City = id
	c.Page = 1
	return c
}

// WithSort returns a copy with the sort order replaced and the page reset to 1.
func (c Criteria) WithSort(key SortKey) Criteria {
	c.Sort = key
	c.Page = 1
	return c
}

// WithPage returns a copy with only the page number changed. Pages below 1
// are clamped to 1.
func (c Criteria) WithPage(page int) Criteria {
	if page < 1 {
		page = 1
	}
	c.Page = page
	return c
}

// onlyFreeTextChanged reports whether next differs from prev in the free-text
// field alone (the page reset that accompanies a free-text edit does not
// count as a separate change).
func onlyFreeTextChanged(prev, next Criteria) bool {
	if prev.FreeText == next.FreeText {
		return false
	}
	return prev.WithFreeText(next.FreeText).Equal(next)
}
