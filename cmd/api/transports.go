package main

import (
	"context"
	"fmt"

	"forge-relay/config"
	"forge-relay/internal/delivery"
	"forge-relay/internal/delivery/console"
	slackPort "forge-relay/internal/delivery/slack"
	telegramPort "forge-relay/internal/delivery/telegram"
	"forge-relay/internal/delivery/websocket"
	"forge-relay/pkg/log"
	"forge-relay/pkg/metrics"
	"forge-relay/pkg/telegram"
)

type transportBundle struct {
	router *delivery.Router
	hub    *websocket.Hub
}

func newTransports(ctx context.Context, cfg *config.Config, l log.Logger, m *metrics.Metrics) (transportBundle, error) {
	hub := websocket.NewHub(l)
	ports := map[string]delivery.Port{
		delivery.TransportWebsocket: hub,
		delivery.TransportLog:       console.New(l),
	}

	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		me, err := bot.GetMe(ctx)
		if err != nil {
			l.Warnf(ctx, "Telegram getMe failed, sends may fail: %v", err)
		} else {
			l.Infof(ctx, "Telegram transport ready as @%s", me.Username)
		}
		ports[delivery.TransportTelegram] = telegramPort.New(bot, l)
	} else {
		l.Info(ctx, "Telegram transport skipped: TELEGRAM_BOT_TOKEN is empty")
	}

	if cfg.Slack.BotToken != "" {
		ports[delivery.TransportSlack] = slackPort.NewFromToken(cfg.Slack.BotToken, l)
		l.Info(ctx, "Slack transport ready")
	} else {
		l.Info(ctx, "Slack transport skipped: SLACK_BOT_TOKEN is empty")
	}

	def := cfg.Delivery.DefaultTransport
	if _, ok := ports[def]; !ok {
		return transportBundle{}, fmt.Errorf("delivery.default_transport %q is not configured", def)
	}

	return transportBundle{
		router: delivery.NewRouter(ports, def, m),
		hub:    hub,
	}, nil
}
