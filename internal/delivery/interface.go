package delivery

import "context"

// Port hands one chat line to a channel. Implementations must be safe for
// concurrent use; lines for one channel are sent by a single goroutine.
type Port interface {
	Send(ctx context.Context, channel, line string) error
}

// PortFunc adapts a function to Port.
type PortFunc func(ctx context.Context, channel, line string) error

func (f PortFunc) Send(ctx context.Context, channel, line string) error {
	return f(ctx, channel, line)
}
