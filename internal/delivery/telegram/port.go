// Package telegram delivers chat lines to Telegram chats.
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"forge-relay/internal/delivery"
	"forge-relay/pkg/ircfmt"
	pkgLog "forge-relay/pkg/log"
	pkgTelegram "forge-relay/pkg/telegram"
)

// Sender is the part of the bot client the port needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type port struct {
	bot Sender
	l   pkgLog.Logger
}

// New creates a port that posts through bot. Channel addresses are numeric
// chat ids.
func New(bot Sender, l pkgLog.Logger) delivery.Port {
	return &port{bot: bot, l: l}
}

// NewFromToken builds the bot client from a token.
func NewFromToken(token string, l pkgLog.Logger) delivery.Port {
	return New(pkgTelegram.NewBot(token), l)
}

func (p *port) Send(ctx context.Context, channel, line string) error {
	chatID, err := strconv.ParseInt(channel, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: telegram chat id %q", delivery.ErrInvalidChannel, channel)
	}

	if err := p.bot.SendMessage(ctx, chatID, ircfmt.Strip(line)); err != nil {
		p.l.Warnf(ctx, "delivery.telegram.Send: chat=%d: %v", chatID, err)
		return err
	}
	return nil
}
