package webhook

import (
	"context"

	"forge-relay/internal/dispatcher"
)

// Dispatcher accepts background work for an acknowledged event.
type Dispatcher interface {
	Dispatch(ctx context.Context, job dispatcher.Job) error
}
