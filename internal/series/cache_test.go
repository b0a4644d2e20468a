package series

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/internal/kalshi"
	"github.com/mselser95/bracket-arb/pkg/cache"
)

type fakeLister struct {
	calls   int
	results []kalshi.Series
	err     error
}

func (f *fakeLister) ListSeries(_ context.Context) ([]kalshi.Series, error) {
	f.calls++
	return f.results, f.err
}

func newMemCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("build ristretto cache: %v", err)
	}
	return c
}

func TestGet_FetchesOnFirstLookup(t *testing.T) {
	lister := &fakeLister{results: []kalshi.Series{{Ticker: "KX"}}}
	c := New(Config{Client: lister, Store: newMemCache(t), TTL: time.Minute})

	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || lister.calls != 1 {
		t.Fatalf("got %v, calls=%d", got, lister.calls)
	}
}

func TestGet_ServesFromCacheWithinTTL(t *testing.T) {
	lister := &fakeLister{results: []kalshi.Series{{Ticker: "KX"}}}
	c := New(Config{Client: lister, Store: newMemCache(t), TTL: time.Minute})

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatal(err)
	}

	if lister.calls != 1 {
		t.Errorf("expected a single upstream call within TTL, got %d", lister.calls)
	}
}

func TestGet_FallsBackToStaleOnRefreshFailure(t *testing.T) {
	lister := &fakeLister{results: []kalshi.Series{{Ticker: "KX"}}}
	c := New(Config{Client: lister, Store: newMemCache(t), TTL: time.Nanosecond})

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	lister.err = errors.New("exchange unreachable")
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("expected stale data to be returned unchanged, got %v", second)
	}
}

func TestGet_PropagatesErrorWhenCacheEmpty(t *testing.T) {
	lister := &fakeLister{err: errors.New("exchange unreachable")}
	c := New(Config{Client: lister, Store: newMemCache(t), TTL: time.Minute})

	_, err := c.Get(context.Background())
	if err == nil {
		t.Fatal("expected an error when the cache is empty and refresh fails")
	}
}
