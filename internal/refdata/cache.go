// Package refdata caches slow-changing reference data (categories, cities,
// states) in memory, with an optional bbolt snapshot for warm starts.
package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/adscout/adscout/internal/metrics"
	domain "github.com/adscout/adscout/pkg/types"
)

// ContentAPI is the subset of the API client the cache depends on.
type ContentAPI interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Cities(ctx context.Context, stateCode string) ([]domain.City, error)
	States(ctx context.Context) ([]domain.State, error)
}

// Reference-data kinds, used as metric labels and snapshot keys.
const (
	KindCategories = "categories"
	KindCities     = "cities"
	KindStates     = "states"
)

// ErrUnknownKind reports an Invalidate call naming a kind the cache does not
// hold.
var ErrUnknownKind = errors.New("unknown reference-data kind")

var snapshotBucket = []byte("refdata")

// Cache serves reference data from memory, fetching through the API on a
// miss. City lists are scoped by state code: the unscoped list and each
// per-state list are cached independently. Reads with useCache=false bypass
// the cached value but still refresh it.
type Cache struct {
	api ContentAPI
	log *slog.Logger
	db  *bolt.DB

	mu         sync.Mutex
	categories []domain.Category
	states     []domain.State
	cities     map[string][]domain.City
}

// CacheOption configures the Cache.
type CacheOption func(*Cache) error

// WithSnapshot persists fetched reference data to a bbolt file at path and
// warms the cache from it on startup.
func WithSnapshot(path string) CacheOption {
	return func(c *Cache) error {
		db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return fmt.Errorf("opening refdata snapshot %s: %w", path, err)
		}
		c.db = db
		return nil
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) error {
		c.log = l
		return nil
	}
}

// NewCache creates a Cache backed by the given API.
func NewCache(api ContentAPI, opts ...CacheOption) (*Cache, error) {
	c := &Cache{
		api:    api,
		log:    slog.Default(),
		cities: make(map[string][]domain.City),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.db != nil {
		c.warmFromSnapshot()
	}
	return c, nil
}

// Close releases the snapshot file, if any.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Categories returns the category list.
func (c *Cache) Categories(ctx context.Context, useCache bool) ([]domain.Category, error) {
	if useCache {
		c.mu.Lock()
		if c.categories != nil {
			out := append([]domain.Category(nil), c.categories...)
			c.mu.Unlock()
			metrics.RefDataHitsTotal.WithLabelValues(KindCategories).Inc()
			return out, nil
		}
		c.mu.Unlock()
	}

	metrics.RefDataMissesTotal.WithLabelValues(KindCategories).Inc()
	cats, err := c.api.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}

	c.mu.Lock()
	c.categories = cats
	c.mu.Unlock()
	c.persist(KindCategories, cats)
	return cats, nil
}

// Cities returns the city list for a state code, or the unscoped list when
// the code is empty.
func (c *Cache) Cities(ctx context.Context, stateCode string, useCache bool) ([]domain.City, error) {
	key := strings.ToUpper(stateCode)

	if useCache {
		c.mu.Lock()
		if cached, ok := c.cities[key]; ok {
			out := append([]domain.City(nil), cached...)
			c.mu.Unlock()
			metrics.RefDataHitsTotal.WithLabelValues(KindCities).Inc()
			return out, nil
		}
		c.mu.Unlock()
	}

	metrics.RefDataMissesTotal.WithLabelValues(KindCities).Inc()
	cities, err := c.api.Cities(ctx, stateCode)
	if err != nil {
		return nil, fmt.Errorf("fetching cities for %q: %w", stateCode, err)
	}

	c.mu.Lock()
	c.cities[key] = cities
	c.mu.Unlock()
	c.persist(citiesKey(key), cities)
	return cities, nil
}

// States returns the state list.
func (c *Cache) States(ctx context.Context, useCache bool) ([]domain.State, error) {
	if useCache {
		c.mu.Lock()
		if c.states != nil {
			out := append([]domain.State(nil), c.states...)
			c.mu.Unlock()
			metrics.RefDataHitsTotal.WithLabelValues(KindStates).Inc()
			return out, nil
		}
		c.mu.Unlock()
	}

	metrics.RefDataMissesTotal.WithLabelValues(KindStates).Inc()
	states, err := c.api.States(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}

	c.mu.Lock()
	c.states = states
	c.mu.Unlock()
	c.persist(KindStates, states)
	return states, nil
}

// Invalidate drops the cached values of the named kinds, in memory and in
// the snapshot. With no arguments every kind is dropped. Cities are dropped
// across all state scopes.
func (c *Cache) Invalidate(kinds ...string) error {
	if len(kinds) == 0 {
		kinds = []string{KindCategories, KindCities, KindStates}
	}
	for _, kind := range kinds {
		switch kind {
		case KindCategories, KindCities, KindStates:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
		}
	}

	c.mu.Lock()
	for _, kind := range kinds {
		switch kind {
		case KindCategories:
			c.categories = nil
		case KindStates:
			c.states = nil
		case KindCities:
			c.cities = make(map[string][]domain.City)
		}
	}
	c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotBucket)
		if b == nil {
			return nil
		}
		var stale [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			for _, kind := range kinds {
				if string(k) == kind || strings.HasPrefix(string(k), kind+":") {
					stale = append(stale, append([]byte(nil), k...))
				}
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.log.Warn("clearing refdata snapshot", "error", err)
	}
	return nil
}

func citiesKey(code string) string {
	return KindCities + ":" + code
}

// persist writes one entry to the snapshot, best effort.
func (c *Cache) persist(key string, v any) {
	if c.db == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("encoding refdata snapshot entry", "key", key, "error", err)
		return
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(snapshotBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	if err != nil {
		c.log.Warn("writing refdata snapshot entry", "key", key, "error", err)
	}
}

// warmFromSnapshot preloads the in-memory cache from the snapshot file.
func (c *Cache) warmFromSnapshot() {
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(snapshotBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			key := string(k)
			switch {
			case key == KindCategories:
				var cats []domain.Category
				if err := json.Unmarshal(v, &cats); err == nil {
					c.categories = cats
				}
			case key == KindStates:
				var states []domain.State
				if err := json.Unmarshal(v, &states); err == nil {
					c.states = states
				}
			case strings.HasPrefix(key, KindCities+":"):
				var cities []domain.City
				if err := json.Unmarshal(v, &cities); err == nil {
					c.cities[strings.TrimPrefix(key, KindCities+":")] = cities
				}
			}
			return nil
		})
	})
	if err != nil {
		c.log.Warn("warming refdata cache from snapshot", "error", err)
	}
}
