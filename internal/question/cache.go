package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 5 * time.Minute
	poolCacheKey    = "questionpool:v1"
)

// Cache keeps the partitioned question bank in Redis so exam generation
// does not scan the questions table on every request.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ PoolCache = (*Cache)(nil)

func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns nil, nil on a cache miss.
func (c *Cache) Get(ctx context.Context) (*Pools, error) {
	data, err := c.client.Get(ctx, poolCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var pools Pools
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, err
	}
	return &pools, nil
}

func (c *Cache) Set(ctx context.Context, pools Pools) error {
	data, err := json.Marshal(pools)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, poolCacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached bank, e.g. after questions were re-imported.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, poolCacheKey).Err()
}
