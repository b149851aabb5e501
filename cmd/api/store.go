package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"forge-relay/config"
	"forge-relay/internal/model"
	"forge-relay/internal/subscription"
	"forge-relay/internal/subscription/repository/memory"
	"forge-relay/internal/subscription/repository/postgre"
	subsRedis "forge-relay/internal/subscription/repository/redis"
	"forge-relay/pkg/log"
)

// storeBundle is the configured subscription store plus the resources
// backing it.
type storeBundle struct {
	subscription.Store
	ready   func(ctx context.Context) error
	closers []func()
}

func (b *storeBundle) Ready(ctx context.Context) error {
	if b.ready == nil {
		return nil
	}
	return b.ready(ctx)
}

func (b *storeBundle) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func newStore(ctx context.Context, cfg *config.Config, l log.Logger) (*storeBundle, error) {
	static := staticSubscriptions(cfg.Subscription.Static)
	b := &storeBundle{}

	switch cfg.Subscription.Backend {
	case config.BackendPostgres:
		pool, err := postgre.Connect(ctx, cfg.Subscription.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.ready = pool.Ping

		repo := postgre.New(pool, l)
		if err := repo.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		for _, s := range static {
			if err := repo.Upsert(ctx, s); err != nil {
				b.Close()
				return nil, fmt.Errorf("seed %s -> %s: %w", s.Repository, s.Channel, err)
			}
		}
		b.Store = repo
		l.Infof(ctx, "Subscription store: postgres (%d static entries seeded)", len(static))
	default:
		b.Store = memory.New(static)
		l.Infof(ctx, "Subscription store: memory (%d entries)", len(static))
	}

	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			l.Warnf(ctx, "Redis at %s not reachable, lookups fall through until it is: %v", cfg.Redis.Addr, err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.Store = subsRedis.New(client, b.Store, cfg.Redis.TTL, l)
		l.Infof(ctx, "Subscription cache: redis %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL)
	}

	return b, nil
}

func staticSubscriptions(entries []config.StaticSubscription) []model.Subscription {
	subs := make([]model.Subscription, 0, len(entries))
	for _, e := range entries {
		subs = append(subs, model.Subscription{
			Channel:    e.Channel,
			Repository: e.Repository,
			Enabled:    e.Enabled,
			Colors: model.ColorScheme{
				URL:    e.URLColor,
				Tag:    e.TagColor,
				Repo:   e.RepoColor,
				Name:   e.NameColor,
				Hash:   e.HashColor,
				Branch: e.BranchColor,
			},
		})
	}
	return subs
}
