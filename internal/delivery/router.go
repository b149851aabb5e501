package delivery

import (
	"context"
	"fmt"
	"strings"

	"forge-relay/pkg/metrics"
)

// Transport names.
const (
	TransportTelegram  = "telegram"
	TransportSlack     = "slack"
	TransportWebsocket = "ws"
	TransportLog       = "log"
)

// Router sends each line through the transport named by the channel's
// "<transport>:" prefix. Channels without a known prefix use the default
// transport and are passed through unchanged.
type Router struct {
	ports            map[string]Port
	defaultTransport string
	m                *metrics.Metrics
}

// NewRouter creates a router over ports keyed by transport name.
func NewRouter(ports map[string]Port, defaultTransport string, m *metrics.Metrics) *Router {
	cp := make(map[string]Port, len(ports))
	for name, p := range ports {
		if p != nil {
			cp[name] = p
		}
	}
	return &Router{ports: cp, defaultTransport: defaultTransport, m: m}
}

// Resolve splits channel into its transport name and the address passed to
// that transport.
func (r *Router) Resolve(channel string) (transport, address string, err error) {
	if name, rest, ok := strings.Cut(channel, ":"); ok {
		if _, known := r.ports[name]; known {
			if rest == "" {
				return "", "", fmt.Errorf("%w: %q", ErrInvalidChannel, channel)
			}
			return name, rest, nil
		}
	}
	if _, known := r.ports[r.defaultTransport]; !known {
		return "", "", fmt.Errorf("%w: %q", ErrNoTransport, channel)
	}
	return r.defaultTransport, channel, nil
}

func (r *Router) Send(ctx context.Context, channel, line string) error {
	transport, address, err := r.Resolve(channel)
	if err != nil {
		return err
	}

	if err := r.ports[transport].Send(ctx, address, line); err != nil {
		r.m.DeliveryFailed(transport)
		return fmt.Errorf("%s: %w", transport, err)
	}
	r.m.Delivered(transport)
	return nil
}
