package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/de-tools/shadow-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

// DefaultTTL is the freshness window for a cached snapshot.
const DefaultTTL = 5 * time.Minute

// Loader produces a fresh snapshot of all three sources.
type Loader interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// Cache holds the process-wide source snapshot. Readers share a valid
// snapshot without blocking each other; reloads swap the snapshot
// pointer whole, never mutate it in place.
type Cache struct {
	loader Loader
	ttl    time.Duration

	mu      sync.RWMutex
	snap    *domain.Snapshot
	reloads int
}

func NewCache(loader Loader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{loader: loader, ttl: ttl}
}

// Get returns the cached snapshot when it is younger than the TTL and
// forceReload is false; otherwise it reloads all sources. A failed
// reload leaves any previous snapshot in place and returns the error.
func (c *Cache) Get(ctx context.Context, forceReload bool) (*domain.Snapshot, error) {
	if !forceReload {
		c.mu.RLock()
		if c.fresh() {
			snap := c.snap
			c.mu.RUnlock()
			return snap, nil
		}
		c.mu.RUnlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another writer may have reloaded while we waited for the lock.
	if !forceReload && c.fresh() {
		return c.snap, nil
	}

	snap, err := c.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.snap = snap
	c.reloads++
	zerolog.Ctx(ctx).Debug().Int("reloads", c.reloads).Msg("source snapshot reloaded")
	return snap, nil
}

// Invalidate drops the cached snapshot unconditionally; the next Get
// reloads from the sources.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

// Reloads reports how many times the sources have been loaded.
func (c *Cache) Reloads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reloads
}

func (c *Cache) fresh() bool {
	return c.snap != nil && time.Since(c.snap.LoadedAt) < c.ttl
}
