package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores addresses by Key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*Address, bool, error)
	Set(ctx context.Context, key string, addr *Address) error
}

// MemoryCache is a process-local cache bounded by TTL; a janitor purges
// expired entries.
type MemoryCache struct {
	cache *cache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{cache: cache.New(ttl, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Address, bool, error) {
	if x, found := c.cache.Get(key); found {
		addr := *x.(*Address)
		return &addr, true, nil
	}
	return nil, false, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, addr *Address) error {
	stored := *addr
	c.cache.Set(key, &stored, cache.DefaultExpiration)
	return nil
}

func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// RedisCache shares entries across instances as JSON strings.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: "geocode:", ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Address, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var addr Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, false, err
	}
	return &addr, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, addr *Address) error {
	raw, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}
