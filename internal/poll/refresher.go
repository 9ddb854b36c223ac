// Package poll periodically re-runs a refresh function, for views that track
// server-side aggregates such as the dashboard stats.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/adscout/adscout/internal/metrics"
)

// RefreshFunc performs one refresh. Errors are counted and logged; the next
// scheduled run still happens.
type RefreshFunc func(ctx context.Context) error

// Refresher runs a refresh immediately on start and then on a fixed
// interval until stopped.
type Refresher struct {
	fn       RefreshFunc
	interval time.Duration
	log      *slog.Logger

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

// RefresherOption configures the Refresher.
type RefresherOption func(*Refresher)

// WithRefresherLogger sets the logger.
func WithRefresherLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.log = l
	}
}

// NewRefresher creates a Refresher that runs fn every interval. The interval
// must be at least one second.
func NewRefresher(fn RefreshFunc, interval time.Duration, opts ...RefresherOption) (*Refresher, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("poll interval %s is below the 1s minimum", interval)
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{
		fn:       fn,
		interval: interval,
		log:      slog.Default(),
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start runs the first refresh synchronously, then schedules the periodic
// runs. Starting twice is an error.
func (r *Refresher) Start() error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return errors.New("refresher already started")
	}
	r.started = true
	r.mu.Unlock()

	r.run()
	r.cron.Schedule(cron.Every(r.interval), cron.FuncJob(r.run))
	r.cron.Start()
	r.log.Debug("polling started", "interval", r.interval)
	return nil
}

// Stop halts the schedule and cancels any refresh in flight. It waits for a
// running refresh to return.
func (r *Refresher) Stop() {
	r.cancel()
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.log.Debug("polling stopped")
}

// Entries reports how many periodic jobs are scheduled. Mostly for tests.
func (r *Refresher) Entries() int {
	return len(r.cron.Entries())
}

func (r *Refresher) run() {
	metrics.PollRunsTotal.Inc()
	if err := r.fn(r.ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		metrics.PollFailuresTotal.Inc()
		r.log.Warn("poll refresh failed", "error", err)
	}
}
