// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-ledger/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICacheClient defines the subset of the Redis client the services use.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Cache is a JSON cache-aside helper. A nil *Cache disables caching; cache
// errors are logged and treated as misses.
type Cache struct {
	client ICacheClient
	ttl    time.Duration
}

func NewCache(client ICacheClient, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func accountsKey(userID int64) string { return fmt.Sprintf("accounts:%d", userID) }
func activityKey(userID int64) string { return fmt.Sprintf("activity:%d", userID) }

func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}
	return json.Unmarshal([]byte(data), dst) == nil
}

func (c *Cache) set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

func (c *Cache) hget(ctx context.Context, key, field string, dst any) bool {
	if c == nil {
		return false
	}
	data, err := c.client.HGet(ctx, key, field).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}
	return json.Unmarshal([]byte(data), dst) == nil
}

func (c *Cache) hset(ctx context.Context, key, field string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.HSet(ctx, key, field, data).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("Cache write failed")
		return
	}
	if c.ttl > 0 {
		c.client.Expire(ctx, key, c.ttl)
	}
}

// InvalidateUsers drops every cached view that depends on the balances or
// activity of the given users.
func (c *Cache) InvalidateUsers(ctx context.Context, userIDs ...int64) {
	if c == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, 2*len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, accountsKey(id), activityKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).Warn("Cache invalidation failed")
	}
}
