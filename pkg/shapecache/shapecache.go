// Package shapecache memoises decoded route shapes for the session - the
// provider's encoded polylines change rarely and decoding them is the
// expensive part of a selection reload.
package shapecache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/transitview/transitview/pkg/redis_client"
	"github.com/transitview/transitview/pkg/tvf"
)

type ShapeSource interface {
	RouteShape(ctx context.Context, routeID string) *tvf.RouteShape
}

type ShapeCache struct {
	Source ShapeSource

	mutex  sync.Mutex
	memory map[string]tvf.RouteShape

	remote *cache.Cache[string]
}

func NewShapeCache(source ShapeSource) *ShapeCache {
	shapeCache := &ShapeCache{
		Source: source,
		memory: map[string]tvf.RouteShape{},
	}

	if redis_client.Client != nil {
		redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(90*time.Minute))
		shapeCache.remote = cache.New[string](redisStore)
	}

	return shapeCache
}

// RouteShape satisfies the mode controller's shape loader, consulting the
// in-memory map, then redis, then the provider
func (c *ShapeCache) RouteShape(ctx context.Context, routeID string) *tvf.RouteShape {
	c.mutex.Lock()
	if shape, ok := c.memory[routeID]; ok {
		c.mutex.Unlock()
		return &shape
	}
	c.mutex.Unlock()

	cacheKey := fmt.Sprintf("TRANSITVIEW:SHAPE:%s", routeID)

	if c.remote != nil {
		if cacheValue, err := c.remote.Get(ctx, cacheKey); err == nil {
			var shape tvf.RouteShape
			if json.Unmarshal([]byte(cacheValue), &shape) == nil && !shape.Empty() {
				c.memoise(shape)
				return &shape
			}
		}
	}

	shape := c.Source.RouteShape(ctx, routeID)
	if shape.Empty() {
		// Failures are not cached - the next selection reload retries
		return nil
	}

	c.memoise(*shape)

	if c.remote != nil {
		shapeJSON, _ := json.Marshal(shape)
		c.remote.Set(ctx, cacheKey, string(shapeJSON))
	}

	return shape
}

func (c *ShapeCache) memoise(shape tvf.RouteShape) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.memory[shape.RouteID] = shape
}
