// Package redis caches subscription lookups in front of another store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"forge-relay/internal/model"
	"forge-relay/internal/subscription"
	pkgLog "forge-relay/pkg/log"
)

const keyPrefix = "forge-relay:subs:"

// KV is the subset of the go-redis client the cache uses.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type implCache struct {
	kv   KV
	next subscription.Store
	ttl  time.Duration
	l    pkgLog.Logger
}

// New wraps next with a read-through cache whose entries live for ttl. Cache
// failures are logged and the lookup falls through to next.
func New(kv KV, next subscription.Store, ttl time.Duration, l pkgLog.Logger) subscription.Store {
	return &implCache{kv: kv, next: next, ttl: ttl, l: l}
}

func cacheKey(repoFullName string) string {
	return keyPrefix + subscription.Key(repoFullName)
}

func (c *implCache) ListEnabled(ctx context.Context, repoFullName string) ([]model.Subscription, error) {
	key := cacheKey(repoFullName)

	if subs, ok := c.get(ctx, key); ok {
		return subs, nil
	}

	subs, err := c.next.ListEnabled(ctx, repoFullName)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, subs)
	return subs, nil
}

func (c *implCache) get(ctx context.Context, key string) ([]model.Subscription, bool) {
	raw, err := c.kv.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.l.Warnf(ctx, "redis.subscription.get: %v", err)
		}
		return nil, false
	}

	var subs []model.Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		c.l.Warnf(ctx, "redis.subscription.get.Unmarshal: %v", err)
		return nil, false
	}
	return subs, true
}

func (c *implCache) set(ctx context.Context, key string, subs []model.Subscription) {
	if subs == nil {
		subs = []model.Subscription{}
	}
	raw, err := json.Marshal(subs)
	if err != nil {
		c.l.Warnf(ctx, "redis.subscription.set.Marshal: %v", err)
		return
	}
	if err := c.kv.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.l.Warnf(ctx, "redis.subscription.set: %v", err)
	}
}
