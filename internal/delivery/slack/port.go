// Package slack delivers chat lines to Slack channels.
package slack

import (
	"context"

	"github.com/slack-go/slack"

	"forge-relay/internal/delivery"
	"forge-relay/pkg/ircfmt"
	pkgLog "forge-relay/pkg/log"
)

// Poster is the part of *slack.Client the port needs.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type port struct {
	client Poster
	l      pkgLog.Logger
}

// New creates a port posting through client. Channel addresses are Slack
// channel ids.
func New(client Poster, l pkgLog.Logger) delivery.Port {
	return &port{client: client, l: l}
}

// NewFromToken builds a Slack client from a bot token. Extra options such as
// slack.OptionAPIURL are passed through.
func NewFromToken(token string, l pkgLog.Logger, opts ...slack.Option) delivery.Port {
	return New(slack.New(token, opts...), l)
}

func (p *port) Send(ctx context.Context, channel, line string) error {
	_, _, err := p.client.PostMessageContext(ctx, channel,
		slack.MsgOptionText(ircfmt.Strip(line), true),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		p.l.Warnf(ctx, "delivery.slack.Send: channel=%s: %v", channel, err)
		return err
	}
	return nil
}
