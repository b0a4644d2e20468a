// Package series wraps the exchange's series catalog in a TTL cache
// with stale-on-failure fallback, so a transient exchange outage never
// stalls the scan cycle as long as a prior successful fetch exists.
package series

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/kalshi"
	"github.com/mselser95/bracket-arb/pkg/cache"
)

const cacheKey = "series:all"

// Lister fetches the full series catalog; satisfied by *kalshi.Client.
type Lister interface {
	ListSeries(ctx context.Context) ([]kalshi.Series, error)
}

// Cache serves the series catalog from a backing TTL cache, keyed by
// nothing (there is only ever one entry: the full list), refreshing on
// every stale lookup and falling back to the last good list when a
// refresh fails.
type Cache struct {
	client Lister
	store  cache.Cache
	ttl    time.Duration
	logger *zap.Logger

	mu        sync.Mutex
	fetchedAt time.Time
}

// Config configures a Cache.
type Config struct {
	Client Lister
	Store  cache.Cache
	TTL    time.Duration // default 300s
	Logger *zap.Logger
}

// New builds a series Cache.
func New(cfg Config) *Cache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 300 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: cfg.Client, store: cfg.Store, ttl: ttl, logger: logger}
}

// Get returns the series catalog, refreshing it when stale. A failed
// refresh against a non-empty cache returns the stale data with a
// warning logged; a failed refresh against an empty cache propagates
// the error, since no data is ever available.
func (c *Cache) Get(ctx context.Context) ([]kalshi.Series, error) {
	c.mu.Lock()
	stale := time.Since(c.fetchedAt) >= c.ttl
	c.mu.Unlock()

	cached, found := c.lookup()

	if !stale && found {
		HitsTotal.Inc()
		return cached, nil
	}

	fresh, err := c.client.ListSeries(ctx)
	if err != nil {
		if found {
			StaleTotal.Inc()
			c.logger.Warn("series-refresh-failed-serving-stale",
				zap.Error(err), zap.Int("cached_count", len(cached)))
			return cached, nil
		}
		return nil, fmt.Errorf("refresh series catalog: %w", err)
	}

	c.store.Set(cacheKey, fresh, 0)
	if waiter, ok := c.store.(interface{ Wait() }); ok {
		waiter.Wait()
	}

	c.mu.Lock()
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return fresh, nil
}

func (c *Cache) lookup() ([]kalshi.Series, bool) {
	v, found := c.store.Get(cacheKey)
	if !found {
		return nil, false
	}
	list, ok := v.([]kalshi.Series)
	if !ok {
		return nil, false
	}
	return list, true
}
