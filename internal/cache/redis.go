package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codespark/backend/internal/config"
)

// likeCountTTL bounds staleness of the incoming-like counter; the DB is the
// fallback on miss.
const likeCountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes a Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForLikeCount generates the Redis key for a user's incoming-like count.
func (c *RedisCache) KeyForLikeCount(username string) string {
	return fmt.Sprintf("likes:count:%s", username)
}

// IncrLikeCount bumps the counter after a like lands; best effort.
func (c *RedisCache) IncrLikeCount(ctx context.Context, username string) {
	key := c.KeyForLikeCount(username)
	_, _ = c.Client.Incr(ctx, key).Result()
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
}

// DecrLikeCount drops the counter after a like is consumed or reversed.
func (c *RedisCache) DecrLikeCount(ctx context.Context, username string) {
	key := c.KeyForLikeCount(username)
	_, _ = c.Client.Decr(ctx, key).Result()
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
}

// UpdateLikeCount writes an authoritative count from the store.
func (c *RedisCache) UpdateLikeCount(ctx context.Context, username string, count int64) error {
	return c.Client.Set(ctx, c.KeyForLikeCount(username), count, likeCountTTL).Err()
}

// GetLikeCount reads the cached count. Returns (0, false, nil) on miss.
func (c *RedisCache) GetLikeCount(ctx context.Context, username string) (int64, bool, error) {
	key := c.KeyForLikeCount(username)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, likeCountTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}
