// Package memory keeps subscriptions in process memory. It backs the
// statically configured deployment and the tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"forge-relay/internal/model"
	"forge-relay/internal/subscription"
)

type implRepository struct {
	mu   sync.RWMutex
	subs map[string]map[string]model.Subscription // repo key -> channel -> sub
}

// Repository is the memory-backed store.
type Repository interface {
	subscription.Store
	subscription.Writer
	Delete(ctx context.Context, channel, repoFullName string) error
}

// New creates a store seeded with subs. Invalid entries are skipped.
func New(subs []model.Subscription) Repository {
	r := &implRepository{subs: make(map[string]map[string]model.Subscription)}
	for _, s := range subs {
		_ = r.put(s)
	}
	return r
}

func (r *implRepository) ListEnabled(ctx context.Context, repoFullName string) ([]model.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	byChannel := r.subs[subscription.Key(repoFullName)]
	out := make([]model.Subscription, 0, len(byChannel))
	for _, s := range byChannel {
		if s.Enabled {
			out = append(out, s)
		}
	}
	sortByChannel(out)
	return out, nil
}

func (r *implRepository) Upsert(ctx context.Context, sub model.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.put(sub)
}

func (r *implRepository) Delete(ctx context.Context, channel, repoFullName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := subscription.Key(repoFullName)
	delete(r.subs[key], channel)
	if len(r.subs[key]) == 0 {
		delete(r.subs, key)
	}
	return nil
}

func (r *implRepository) put(sub model.Subscription) error {
	if err := subscription.Validate(sub); err != nil {
		return err
	}
	sub.Repository = subscription.Key(sub.Repository)
	sub.Colors = subscription.WithDefaults(sub.Colors)

	r.mu.Lock()
	defer r.mu.Unlock()

	byChannel, ok := r.subs[sub.Repository]
	if !ok {
		byChannel = make(map[string]model.Subscription)
		r.subs[sub.Repository] = byChannel
	}
	byChannel[sub.Channel] = sub
	return nil
}

func sortByChannel(subs []model.Subscription) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].Channel < subs[j].Channel })
}
