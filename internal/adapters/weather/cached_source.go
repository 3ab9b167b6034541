package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"field-schedule-service/internal/adapters/cache"
	"field-schedule-service/internal/domain"
	"field-schedule-service/internal/ports"
)

// CachedSource decorates a live WeatherSource with an in-memory copy
// and a persistent last-good-snapshot cache.
//
// Freshness rules: a fresh in-memory snapshot is served directly;
// otherwise one live fetch runs (concurrent callers collapse onto it
// via singleflight) and its result is saved. When the live fetch fails
// the stored snapshot is served as-is; downstream staleness checks
// decide whether it is still usable.
// ForecastStore persists the last good snapshot across restarts. Both
// the SQLite and Postgres cache adapters satisfy it.
type ForecastStore interface {
	Save(ctx context.Context, snap *domain.WeatherSnapshot) error
	Load(ctx context.Context) (*domain.WeatherSnapshot, error)
}

type CachedSource struct {
	Live   ports.WeatherSource
	Store  ForecastStore
	MaxAge time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	last *domain.WeatherSnapshot
}

func NewCachedSource(live ports.WeatherSource, store ForecastStore, maxAge time.Duration) *CachedSource {
	return &CachedSource{
		Live:   live,
		Store:  store,
		MaxAge: maxAge,
		Now:    time.Now,
	}
}

// Snapshot returns the freshest snapshot available without guessing:
// memory, then one shared live fetch, then the persistent cache.
func (c *CachedSource) Snapshot(ctx context.Context) (*domain.WeatherSnapshot, error) {
	now := c.Now()

	c.mu.RLock()
	last := c.last
	c.mu.RUnlock()

	if last != nil && !last.StaleAt(now, c.MaxAge) {
		return last, nil
	}

	snap, err, _ := c.group.Do("live", func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return snap.(*domain.WeatherSnapshot), nil
}

// Refresh forces a live fetch regardless of freshness; the background
// scheduler uses it to keep the cache warm.
func (c *CachedSource) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("live", func() (interface{}, error) {
		return c.refresh(ctx)
	})
	return err
}

func (c *CachedSource) refresh(ctx context.Context) (*domain.WeatherSnapshot, error) {
	snap, err := c.Live.Snapshot(ctx)
	if err == nil && snap != nil {
		c.mu.Lock()
		c.last = snap
		c.mu.Unlock()

		if c.Store != nil {
			if saveErr := c.Store.Save(ctx, snap); saveErr != nil {
				log.Printf("weather cache: persist snapshot failed: %v", saveErr)
			}
		}
		return snap, nil
	}

	// Live fetch failed: fall back to the last good snapshot rather
	// than returning nothing. It may be stale; callers check that.
	c.mu.RLock()
	last := c.last
	c.mu.RUnlock()
	if last != nil {
		return last, nil
	}

	if c.Store != nil {
		stored, loadErr := c.Store.Load(ctx)
		if loadErr == nil {
			c.mu.Lock()
			c.last = stored
			c.mu.Unlock()
			return stored, nil
		}
		if !errors.Is(loadErr, cache.ErrNoSnapshot) {
			log.Printf("weather cache: load stored snapshot failed: %v", loadErr)
		}
	}

	return nil, fmt.Errorf("weather snapshot: %w", err)
}
