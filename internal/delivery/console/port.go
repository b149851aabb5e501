// Package console writes chat lines to the service log. It is the default
// transport in development.
package console

import (
	"context"

	"forge-relay/internal/delivery"
	"forge-relay/pkg/ircfmt"
	pkgLog "forge-relay/pkg/log"
)

type port struct {
	l pkgLog.Logger
}

func New(l pkgLog.Logger) delivery.Port {
	return &port{l: l}
}

func (p *port) Send(ctx context.Context, channel, line string) error {
	p.l.Infof(ctx, "%s: %s", channel, ircfmt.Strip(line))
	return nil
}
