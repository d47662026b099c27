package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
)

// RedisCache shares cached top talent across instances.
type RedisCache struct {
	rdb *redis.Client
	log *logrus.Entry
}

func NewRedisCache(rdb *redis.Client, l *logrus.Logger) *RedisCache {
	return &RedisCache{rdb: rdb, log: logger.Component(l, "cache")}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("dropping corrupt cache entry")
		_ = c.rdb.Unlink(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// SetJSON stores val; ttl <= 0 keeps it until deleted.
func (c *RedisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Unlink(ctx, keys...).Err()
}
