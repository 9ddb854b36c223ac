// Package detail implements progressive resolution of a single listing view:
// a fallback projection built from data already on hand is shown at once,
// then upgraded in place when the authoritative record arrives.
package detail

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adscout/adscout/internal/metrics"
	domain "github.com/adscout/adscout/pkg/types"
)

// DetailAPI is the subset of the API client the resolver depends on.
type DetailAPI interface {
	GetAd(ctx context.Context, slug string) (*domain.Detail, error)
}

// View is a snapshot of the currently open listing. Listing is nil when
// nothing is open. Loading reports an authoritative fetch still in flight;
// Err is the error of a failed fetch whose fallback was kept on display.
type View struct {
	Listing *domain.Resolved
	Loading bool
	Err     error
}

// Resolver upgrades listing views progressively. Opening a listing shows its
// fallback projection immediately and fetches the authoritative record in
// the background. Each open starts a new generation; a fetch that completes
// after its view was closed or replaced is discarded.
type Resolver struct {
	api      DetailAPI
	log      *slog.Logger
	onUpdate func(View)

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	fallback *domain.Resolved
	current  *domain.Resolved
	loading  bool
	lastErr  error
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = l
	}
}

// WithOnUpdate registers an observer invoked with a fresh snapshot on every
// view change.
func WithOnUpdate(f func(View)) ResolverOption {
	return func(r *Resolver) {
		r.onUpdate = f
	}
}

// NewResolver creates a Resolver backed by the given API.
func NewResolver(api DetailAPI, opts ...ResolverOption) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Resolver{
		api:    api,
		log:    slog.Default(),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open shows the given listing. The summary's fallback projection is
// visible immediately; the authoritative record replaces it when fetched.
// Any in-flight fetch for a previously open listing is superseded.
func (r *Resolver) Open(s *domain.Summary) {
	fallback := domain.ResolvedFromSummary(s)
	r.open(&fallback)
}

// OpenSlug shows a listing for which no summary is on hand, e.g. one reached
// by a shared link. The fallback carries only the slug and placeholder media.
func (r *Resolver) OpenSlug(slug string) {
	r.open(&domain.Resolved{
		Slug:   slug,
		Image:  domain.PlaceholderImage,
		Images: []string{domain.PlaceholderImage},
	})
}

func (r *Resolver) open(fallback *domain.Resolved) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.fallback = fallback
	r.current = fallback
	r.loading = true
	r.lastErr = nil
	view := r.viewLocked()
	cb := r.onUpdate
	r.mu.Unlock()

	if cb != nil {
		cb(view)
	}
	go r.fetch(gen, fallback.Slug)
}

// Close dismisses the current view. A fetch still in flight for it is
// discarded when it completes.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.gen++
	r.fallback = nil
	r.current = nil
	r.loading = false
	r.lastErr = nil
	r.mu.Unlock()
}

// Shutdown cancels all background work. The resolver must not be used after.
func (r *Resolver) Shutdown() {
	r.Close()
	r.cancel()
}

// Current returns a snapshot of the open view.
func (r *Resolver) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

func (r *Resolver) viewLocked() View {
	return View{
		Listing: r.current,
		Loading: r.loading,
		Err:     r.lastErr,
	}
}

func (r *Resolver) fetch(gen uint64, slug string) {
	d, err := r.api.GetAd(r.ctx, slug)

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		r.log.Debug("discarding detail for a closed view", "slug", slug)
		return
	}

	if err != nil {
		r.loading = false
		r.lastErr = err
		metrics.DetailFallbackRetainedTotal.Inc()
	} else {
		resolved := domain.ResolvedFromDetail(d)
		// never downgrade media: a detail record with no gallery keeps
		// whatever image the fallback already showed
		if len(d.Images) == 0 && r.fallback != nil && r.fallback.Image != domain.PlaceholderImage {
			resolved.Image = r.fallback.Image
			resolved.Images = r.fallback.Images
		}
		r.current = &resolved
		r.loading = false
		r.lastErr = nil
		metrics.DetailResolvedTotal.Inc()
	}
	view := r.viewLocked()
	cb := r.onUpdate
	r.mu.Unlock()

	if err != nil {
		r.log.Warn("detail fetch failed, keeping fallback", "slug", slug, "error", err)
	}
	if cb != nil {
		cb(view)
	}
}
