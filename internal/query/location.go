package query

import (
	"net/url"
	"strconv"
	"sync"
)

// Recognized location query keys. Unknown keys are ignored on read and never
// emitted on write.
const (
	keySearch    = "search"
	keySearchAlt = "q"
	keyCategory  = "category"
	keyCity      = "city"
	keyPage      = "page"
)

// ParseQuery reads search criteria from a location query string. Missing
// fields take their defaults; for the free text both "search" and "q" are
// recognized, first non-empty wins.
func ParseQuery(rawQuery string) Criteria {
	c := DefaultCriteria()

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return c
	}

	if s := values.Get(keySearch); s != "" {
		c.FreeText = s
	} else if q := values.Get(keySearchAlt); q != "" {
		c.FreeText = q
	}

	if cat := values.Get(keyCategory); cat != "" {
		c.Category = cat
	}
	if city := values.Get(keyCity); city != "" {
		c.City = city
	}

	if p := values.Get(keyPage); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 1 {
			c.Page = page
		}
	}

	return c
}

// EncodeQuery serializes criteria into a location query string, emitting only
// fields that differ from their defaults to keep shared URLs minimal.
func (c Criteria) EncodeQuery() string {
	values := url.Values{}

	if c.FreeText != "" {
		values.Set(keySearch, c.FreeText)
	}
	if c.Category != "" && c.Category != All {
		values.Set(keyCategory, c.Category)
	}
	if c.City != "" && c.City != All {
		values.Set(keyCity, c.City)
	}
	if c.Page > 1 {
		values.Set(keyPage, strconv.Itoa(c.Page))
	}

	return values.Encode()
}

// History is an explicit navigable location: an ordered sequence of query
// strings with a cursor, the way a browser records visited URLs. Pushing a
// new entry truncates anything ahead of the cursor.
type History struct {
	mu      sync.Mutex
	entries []string
	pos     int
}

// NewHistory creates a history whose current entry is initial.
func NewHistory(initial string) *History {
	return &History{entries: []string{initial}}
}

// Current returns the query string at the cursor.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// Push appends a new entry after the cursor and moves the cursor to it.
// Pushing the current entry again is a no-op.
func (h *History) Push(rawQuery string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.entries[h.pos] == rawQuery {
		return
	}
	h.entries = append(h.entries[:h.pos+1], rawQuery)
	h.pos = len(h.entries) - 1
}

// Back moves the cursor one entry back. It reports false at the oldest entry.
func (h *History) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pos == 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves the cursor one entry forward. It reports false at the newest
// entry.
func (h *History) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pos == len(h.entries)-1 {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
