package server

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
)

// Cache stores rendered catalog answers in redis, keyed by facet and filter
// state. The library is immutable after load so entries only need a TTL to
// bound memory, not to stay correct.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, ttl: time.Hour}
}

func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return jsoncompat.Unmarshal([]byte(data), out) == nil
}

func (c *Cache) Set(ctx context.Context, key string, value any) {
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

func (c *Cache) Close() error {
	return c.client.Close()
}
