package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"food-order-service/internal/domain"
	"food-order-service/internal/infra/catalog"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultOrderTTL = 30 * time.Second
	DefaultMenuTTL  = 5 * time.Minute
)

func orderKey(id string) string { return "orders:" + id }
func menuKey(id string) string  { return "menu-item:" + id }

type RedisOrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisOrderCache(rdb *redis.Client, ttl time.Duration) *RedisOrderCache {
	if ttl <= 0 {
		ttl = DefaultOrderTTL
	}
	return &RedisOrderCache{rdb: rdb, ttl: ttl}
}

func (c *RedisOrderCache) GetOrder(ctx context.Context, id string) (*domain.Order, bool) {
	var o domain.Order
	if !getJSON(ctx, c.rdb, orderKey(id), &o) {
		return nil, false
	}
	return &o, true
}

func (c *RedisOrderCache) SetOrder(ctx context.Context, o *domain.Order) {
	setJSON(ctx, c.rdb, orderKey(o.ID), o, c.ttl)
}

func (c *RedisOrderCache) InvalidateOrder(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, orderKey(id)).Err(); err != nil {
		slog.Warn("cache: invalidate order", "order_id", id, "err", err)
	}
}

type RedisMenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisMenuCache(rdb *redis.Client, ttl time.Duration) *RedisMenuCache {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	return &RedisMenuCache{rdb: rdb, ttl: ttl}
}

func (c *RedisMenuCache) GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, bool) {
	var m catalog.MenuItem
	if !getJSON(ctx, c.rdb, menuKey(id), &m) {
		return nil, false
	}
	return &m, true
}

func (c *RedisMenuCache) SetMenuItem(ctx context.Context, item *catalog.MenuItem) {
	setJSON(ctx, c.rdb, menuKey(item.ID), item, c.ttl)
}

func getJSON(ctx context.Context, rdb *redis.Client, key string, dst any) bool {
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("cache: get", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		slog.Warn("cache: decode", "key", key, "err", err)
		return false
	}
	return true
}

func setJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Warn("cache: set", "key", key, "err", err)
	}
}

var (
	_ OrderCache = (*RedisOrderCache)(nil)
	_ MenuCache  = (*RedisMenuCache)(nil)
)
