package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domain "github.com/adscout/adscout/pkg/types"
)

// Result is the outcome of a query delivered to a session observer. Page is
// nil when Err is set; the session itself keeps serving the last good page.
type Result struct {
	Criteria Criteria
	Page     *domain.Page[domain.Summary]
	Err      error
}

// Session ties the pieces of the query pipeline together: a criteria store
// feeding a fetch scheduler, an executor running the queries, and a location
// history recording each applied search as a shareable query string. Going
// back or forward restores criteria from the history without recording a new
// entry.
type Session struct {
	exec     *Executor
	endpoint Endpoint
	store    *Store
	history  *History
	sched    *Scheduler
	log      *slog.Logger
	unsub    func()

	mu             sync.Mutex
	page           *domain.Page[domain.Summary]
	lastErr        error
	onResult       func(Result)
	pendingRestore *Criteria
}

// SessionOption configures a Session.
type SessionOption func(*Session, *sessionConfig)

type sessionConfig struct {
	initialLocation string
	debounce        time.Duration
}

// WithEndpoint selects which ad list the session queries. Defaults to the
// general search endpoint.
func WithEndpoint(e Endpoint) SessionOption {
	return func(s *Session, _ *sessionConfig) {
		s.endpoint = e
	}
}

// WithInitialLocation seeds the session's criteria from a location query
// string, e.g. "search=bike&category=3&page=2".
func WithInitialLocation(rawQuery string) SessionOption {
	return func(_ *Session, cfg *sessionConfig) {
		cfg.initialLocation = rawQuery
	}
}

// WithOnResult registers an observer invoked after every applied query.
func WithOnResult(f func(Result)) SessionOption {
	return func(s *Session, _ *sessionConfig) {
		s.onResult = f
	}
}

// WithSessionDebounce overrides the free-text debounce interval.
func WithSessionDebounce(d time.Duration) SessionOption {
	return func(_ *Session, cfg *sessionConfig) {
		cfg.debounce = d
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session, _ *sessionConfig) {
		s.log = l
	}
}

// NewSession creates a session over the given executor. No query runs until
// a criteria mutation or an explicit Refresh.
func NewSession(exec *Executor, opts ...SessionOption) *Session {
	s := &Session{
		exec:     exec,
		endpoint: EndpointSearch,
		log:      slog.Default(),
	}
	cfg := &sessionConfig{debounce: defaultDebounce}
	for _, opt := range opts {
		opt(s, cfg)
	}

	initial := ParseQuery(cfg.initialLocation)
	s.store = NewStore(initial)
	s.history = NewHistory(initial.EncodeQuery())
	s.sched = NewScheduler(s.fetch, s.applyResult,
		WithDebounce(cfg.debounce),
		WithSchedulerLogger(s.log),
	)
	s.unsub = s.store.Subscribe(s.onChange)
	return s
}

// Close tears the session down. Pending and in-flight queries are abandoned.
func (s *Session) Close() {
	s.unsub()
	s.sched.Close()
}

// Criteria returns the current search criteria.
func (s *Session) Criteria() Criteria {
	return s.store.Current()
}

// Page returns the last successfully applied page, which may be a stale one
// if the most recent query failed, together with that query's error.
func (s *Session) Page() (*domain.Page[domain.Summary], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page, s.lastErr
}

// Location returns the query string of the current history entry.
func (s *Session) Location() string {
	return s.history.Current()
}

// SetFreeText updates the free-text query, scheduling a debounced fetch.
func (s *Session) SetFreeText(text string) { s.store.SetFreeText(text) }

// SetCategory updates the category filter, fetching immediately.
func (s *Session) SetCategory(id string) { s.store.SetCategory(id) }

// SetCity updates the city filter, fetching immediately.
func (s *Session) SetCity(id string) { s.store.SetCity(id) }

// SetSort updates the sort order, fetching immediately.
func (s *Session) SetSort(key SortKey) { s.store.SetSort(key) }

// SetPage moves to another page of the current result set.
func (s *Session) SetPage(page int) { s.store.SetPage(page) }

// Refresh re-runs the current criteria immediately, bypassing the debounce.
func (s *Session) Refresh() {
	s.sched.Trigger(s.store.Current())
}

// Back restores the previous history entry. It reports false at the oldest
// entry.
func (s *Session) Back() bool {
	raw, ok := s.history.Back()
	if !ok {
		return false
	}
	s.restore(raw)
	return true
}

// Forward restores the next history entry. It reports false at the newest
// entry.
func (s *Session) Forward() bool {
	raw, ok := s.history.Forward()
	if !ok {
		return false
	}
	s.restore(raw)
	return true
}

func (s *Session) restore(rawQuery string) {
	c := ParseQuery(rawQuery)

	s.mu.Lock()
	s.pendingRestore = &c
	s.mu.Unlock()

	if !s.store.Set(c) {
		s.mu.Lock()
		s.pendingRestore = nil
		s.mu.Unlock()
	}
}

func (s *Session) fetch(ctx context.Context, c Criteria) (*domain.Page[domain.Summary], error) {
	return s.exec.Execute(ctx, s.endpoint, c)
}

// onChange is the store subscriber. Restored criteria skip the debounce
// decision entirely; everything else goes through the scheduler.
func (s *Session) onChange(prev, next Criteria) {
	s.mu.Lock()
	restoring := s.pendingRestore != nil && s.pendingRestore.Equal(next)
	s.mu.Unlock()

	if restoring {
		s.sched.Trigger(next)
		return
	}
	s.sched.Notify(prev, next)
}

// applyResult records the outcome of a query that survived supersession. A
// failed query keeps the previous page on display. Applied criteria are
// pushed to the history unless they came from a Back or Forward restore.
func (s *Session) applyResult(c Criteria, page *domain.Page[domain.Summary], err error) {
	s.mu.Lock()
	if err == nil {
		s.page = page
		s.lastErr = nil
	} else {
		s.lastErr = err
	}
	restored := s.pendingRestore != nil && s.pendingRestore.Equal(c)
	if restored {
		s.pendingRestore = nil
	}
	cb := s.onResult
	s.mu.Unlock()

	if !restored {
		s.history.Push(c.EncodeQuery())
	}
	if err != nil {
		s.log.Warn("query failed, keeping previous results", "error", err)
	}
	if cb != nil {
		cb(Result{Criteria: c, Page: page, Err: err})
	}
}
