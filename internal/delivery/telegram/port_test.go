package telegram_test

import (
	"context"
	"errors"
	"testing"

	"forge-relay/internal/delivery"
	"forge-relay/internal/delivery/telegram"
	"forge-relay/pkg/ircfmt"
	pkgLog "forge-relay/pkg/log"
)

type fakeBot struct {
	chatID int64
	text   string
	err    error
}

func (b *fakeBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	b.chatID, b.text = chatID, text
	return b.err
}

func TestPort(t *testing.T) {
	ctx := context.Background()

	t.Run("Strips Formatting", func(t *testing.T) {
		bot := &fakeBot{}
		p := telegram.New(bot, pkgLog.NewNop())
		line := "[" + ircfmt.Color("widget", "13") + "] ada starred the project!"
		if err := p.Send(ctx, "-100123", line); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bot.chatID != -100123 {
			t.Errorf("expected chat -100123, got %d", bot.chatID)
		}
		if bot.text != "[widget] ada starred the project!" {
			t.Errorf("unexpected text: %q", bot.text)
		}
	})

	t.Run("Invalid Chat ID", func(t *testing.T) {
		p := telegram.New(&fakeBot{}, pkgLog.NewNop())
		if err := p.Send(ctx, "#dev", "x"); !errors.Is(err, delivery.ErrInvalidChannel) {
			t.Errorf("expected ErrInvalidChannel, got %v", err)
		}
	})

	t.Run("Bot Error", func(t *testing.T) {
		boom := errors.New("boom")
		p := telegram.New(&fakeBot{err: boom}, pkgLog.NewNop())
		if err := p.Send(ctx, "1", "x"); !errors.Is(err, boom) {
			t.Errorf("expected bot error, got %v", err)
		}
	})
}
