package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/adscout/adscout/internal/metrics"
	domain "github.com/adscout/adscout/pkg/types"
)

const defaultDebounce = 500 * time.Millisecond

// FetchFunc runs the remote query for the given criteria.
type FetchFunc func(ctx context.Context, c Criteria) (*domain.Page[domain.Summary], error)

// ApplyFunc receives the outcome of a fetch that survived supersession.
type ApplyFunc func(c Criteria, page *domain.Page[domain.Summary], err error)

// Scheduler decides when a criteria change triggers a remote fetch: free-text
// edits get a trailing debounce, everything else fires immediately. Each
// fetch carries a monotonically increasing sequence number; a result is
// applied only if its sequence is still the highest one issued, so a slow
// response to an old query can never overwrite a newer one. Stale results
// are dropped silently.
type Scheduler struct {
	fetch    FetchFunc
	apply    ApplyFunc
	debounce time.Duration
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	closed bool

	// applyMu serializes result application so the seq check and the apply
	// callback are atomic with respect to other completions.
	applyMu sync.Mutex
}

// SchedulerOption configures the Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounce overrides the free-text debounce interval.
func WithDebounce(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.debounce = d
	}
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.log = l
	}
}

// NewScheduler creates a Scheduler that runs fetch and hands surviving
// results to apply.
func NewScheduler(fetch FetchFunc, apply ApplyFunc, opts ...SchedulerOption) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		fetch:    fetch,
		apply:    apply,
		debounce: defaultDebounce,
		log:      slog.Default(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify informs the scheduler of an accepted criteria mutation. A free-text
// edit to a non-empty value restarts the trailing debounce timer; clearing
// the free text, or changing any other field, fires immediately and cancels
// any pending debounce.
func (s *Scheduler) Notify(prev, next Criteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()

	if onlyFreeTextChanged(prev, next) && next.FreeText != "" {
		s.timer = time.AfterFunc(s.debounce, func() {
			s.fireDebounced(next)
		})
		s.mu.Unlock()
		return
	}

	seq := s.issueLocked()
	s.mu.Unlock()
	s.launch(next, seq)
}

// Trigger fires an immediate fetch for the given criteria, bypassing the
// debounce decision. Used for the initial load and explicit refreshes.
func (s *Scheduler) Trigger(c Criteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	seq := s.issueLocked()
	s.mu.Unlock()
	s.launch(c, seq)
}

// Close cancels any pending debounce timer and in-flight fetch interest.
// Results resolving after Close are never applied.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()
	s.cancel()
}

func (s *Scheduler) fireDebounced(c Criteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	seq := s.issueLocked()
	s.mu.Unlock()
	s.launch(c, seq)
}

func (s *Scheduler) issueLocked() uint64 {
	s.seq++
	return s.seq
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	if s.timer.Stop() {
		metrics.DebouncedFetchesTotal.Inc()
	}
	s.timer = nil
}

func (s *Scheduler) launch(c Criteria, seq uint64) {
	go func() {
		page, err := s.fetch(s.ctx, c)

		s.applyMu.Lock()
		defer s.applyMu.Unlock()

		s.mu.Lock()
		stale := s.closed || seq != s.seq
		s.mu.Unlock()

		if stale {
			metrics.StaleResultsDroppedTotal.Inc()
			s.log.Debug("dropping superseded result", "seq", seq)
			return
		}
		s.apply(c, page, err)
	}()
}
