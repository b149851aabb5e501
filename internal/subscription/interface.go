package subscription

import (
	"context"

	"forge-relay/internal/model"
)

// Store resolves the chat channels subscribed to a repository.
type Store interface {
	// ListEnabled returns the enabled subscriptions for repoFullName. An
	// empty result is not an error.
	ListEnabled(ctx context.Context, repoFullName string) ([]model.Subscription, error)
}

// Writer is implemented by stores that accept new subscriptions. It is used
// to seed statically configured subscriptions at startup.
type Writer interface {
	Upsert(ctx context.Context, sub model.Subscription) error
}
