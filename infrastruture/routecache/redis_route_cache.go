package routecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-nav/grid"
	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const fillLockSuffix = ":fill_lock"

// RedisRouteCache stores routes in Redis. Concurrent misses on the same key are
// serialized by a distributed lock so a route is searched once.
type RedisRouteCache struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
	logger i.Logger
}

// NewRedisRouteCache initializes a RedisRouteCache with the provided Redis client and TTL.
// Failed writes are reported on logger; the computed route is still returned.
func NewRedisRouteCache(client *redis.Client, ttlSeconds int, logger i.Logger) (i.RouteCache, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	cache := &RedisRouteCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		logger: logger,
	}
	pool := goredis.NewPool(client)
	cache.locker = redsync.New(pool)
	return cache, nil
}

// Fetch implements i.RouteCache.
func (c *RedisRouteCache) Fetch(ctx context.Context, key string, compute func() ([]grid.Position, error)) ([]grid.Position, bool, error) {
	route, hit, err := c.get(ctx, key)
	if err != nil || hit {
		return route, hit, err
	}

	mutex := c.locker.NewMutex(key + fillLockSuffix)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, false, err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	// Another holder of the lock may have filled the key.
	route, hit, err = c.get(ctx, key)
	if err != nil || hit {
		return route, hit, err
	}

	route, err = compute()
	if err != nil {
		return nil, false, err
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return nil, false, err
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warning(fmt.Sprintf("storing route %s: %s", key, err))
	}
	return route, false, nil
}

func (c *RedisRouteCache) get(ctx context.Context, key string) ([]grid.Position, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var route []grid.Position
	if err := json.Unmarshal(payload, &route); err != nil {
		// Corrupt entries are treated as misses and overwritten.
		return nil, false, nil
	}
	return route, true, nil
}
