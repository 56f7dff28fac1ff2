package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"reservio/pkg/model"
)

// ResourceCache fronts the resource store for the hot lookup path.
// Contract: every successful write to a resource must call Invalidate
// for its (kind, code) key; the cache never serves a key past its TTL.
type ResourceCache interface {
	Get(ctx context.Context, kind, code string) (*model.Resource, error)
	Set(ctx context.Context, resource *model.Resource) error
	Invalidate(ctx context.Context, kind, code string) error
}

type redisResourceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisResourceCache(rdb *redis.Client, ttl time.Duration) ResourceCache {
	return &redisResourceCache{rdb: rdb, ttl: ttl}
}

func resourceKey(kind, code string) string {
	return fmt.Sprintf("reservio:resource:%s:%s", kind, code)
}

// Get returns (nil, nil) on a cache miss.
func (c *redisResourceCache) Get(ctx context.Context, kind, code string) (*model.Resource, error) {
	data, err := c.rdb.Get(ctx, resourceKey(kind, code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("resource cache get: %w", err)
	}

	var resource model.Resource
	if err := json.Unmarshal(data, &resource); err != nil {
		// Treat undecodable entries as a miss; the write path will
		// overwrite them.
		return nil, nil
	}
	return &resource, nil
}

func (c *redisResourceCache) Set(ctx context.Context, resource *model.Resource) error {
	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("resource cache set: %w", err)
	}
	if err := c.rdb.Set(ctx, resourceKey(resource.Kind, resource.Code), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("resource cache set: %w", err)
	}
	return nil
}

func (c *redisResourceCache) Invalidate(ctx context.Context, kind, code string) error {
	if err := c.rdb.Del(ctx, resourceKey(kind, code)).Err(); err != nil {
		return fmt.Errorf("resource cache invalidate: %w", err)
	}
	return nil
}

type noopResourceCache struct{}

// NewNoopResourceCache is used when Redis is not available; every read
// is a miss and writes are discarded.
func NewNoopResourceCache() ResourceCache {
	return noopResourceCache{}
}

func (noopResourceCache) Get(context.Context, string, string) (*model.Resource, error) {
	return nil, nil
}

func (noopResourceCache) Set(context.Context, *model.Resource) error { return nil }

func (noopResourceCache) Invalidate(context.Context, string, string) error { return nil }
