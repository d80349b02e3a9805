package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(opts Options) *RedisCache {
	ro := &redis.Options{Addr: opts.Addr}
	if opts.Password != "" {
		ro.Password = opts.Password
	}
	if opts.DB != 0 {
		ro.DB = opts.DB
	}
	return &RedisCache{Client: redis.NewClient(ro)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// KeyForFollowerCount is the cache key for a user's follower count.
func (c *RedisCache) KeyForFollowerCount(userID uint64) string {
	return fmt.Sprintf("followers:count:%d", userID)
}

// KeyForFeed is the cache key for a user's personalized feed.
func (c *RedisCache) KeyForFeed(userID uint64) string {
	return fmt.Sprintf("feed:user:%d", userID)
}

// GetCount returns (value, true) on a cache hit, (0, false) on a miss.
func (c *RedisCache) GetCount(ctx context.Context, key string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (c *RedisCache) SetCount(ctx context.Context, key string, count int64, ttl time.Duration) error {
	return c.Client.Set(ctx, key, strconv.FormatInt(count, 10), ttl).Err()
}
