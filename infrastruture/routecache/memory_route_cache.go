package routecache

import (
	"context"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-nav/grid"
)

type memoryEntry struct {
	route   []grid.Position
	expires time.Time
}

// MemoryRouteCache is an in-process route cache used when Redis is not configured.
type MemoryRouteCache struct {
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	sync.Mutex
}

// NewMemoryRouteCache creates a MemoryRouteCache. A non-positive ttl keeps entries forever.
func NewMemoryRouteCache(ttl time.Duration) *MemoryRouteCache {
	return &MemoryRouteCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Fetch implements i.RouteCache. The lock is held while computing, so concurrent
// misses never search twice.
func (c *MemoryRouteCache) Fetch(ctx context.Context, key string, compute func() ([]grid.Position, error)) ([]grid.Position, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.Lock()
	defer c.Unlock()

	if e, ok := c.entries[key]; ok {
		if c.ttl <= 0 || c.now().Before(e.expires) {
			return clonePositions(e.route), true, nil
		}
		delete(c.entries, key)
	}

	route, err := compute()
	if err != nil {
		return nil, false, err
	}
	c.entries[key] = memoryEntry{route: clonePositions(route), expires: c.now().Add(c.ttl)}
	return route, false, nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryRouteCache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.entries)
}

func clonePositions(route []grid.Position) []grid.Position {
	out := make([]grid.Position, len(route))
	copy(out, route)
	return out
}
