package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"forge-relay/config"
	_ "forge-relay/docs" // Swagger docs
	"forge-relay/internal/dispatcher"
	"forge-relay/internal/httpserver"
	"forge-relay/internal/webhook"
	"forge-relay/pkg/log"
	"forge-relay/pkg/metrics"
)

// @title       Forge Relay API
// @description Relays repository webhook events to chat channels.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Forge Relay...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// 4. Subscription store
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize subscription store: ", err)
		return
	}
	defer store.Close()

	// 5. Delivery transports
	transports, err := newTransports(ctx, cfg, logger, m)
	if err != nil {
		logger.Error(ctx, "Failed to initialize transports: ", err)
		return
	}
	go transports.hub.Run(ctx)

	// 6. Dispatcher
	disp := dispatcher.New(dispatcher.Options{
		Workers:    cfg.Dispatcher.Workers,
		QueueSize:  cfg.Dispatcher.QueueSize,
		Fanout:     cfg.Dispatcher.Fanout,
		JobTimeout: cfg.Dispatcher.JobTimeout,
	}, transports.router, logger, m)

	// 7. Webhook handler
	webhookHandler := webhook.NewHandler(webhook.Config{
		Secret:          cfg.Webhook.Secret,
		ProbeEnabled:    cfg.Webhook.ProbeEnabled,
		MaxBodyBytes:    cfg.Webhook.MaxBodyBytes,
		AllowedIPs:      cfg.Webhook.AllowedIPs,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		DedupWindow:     cfg.Webhook.DedupWindow,
		StoreTimeout:    cfg.Subscription.StoreTimeout,
	}, store, disp, logger, m)
	if cfg.Webhook.Secret == "" {
		logger.Warn(ctx, "webhook.secret is empty, requests are accepted unsigned")
	}

	// 8. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:           logger,
		Port:             cfg.HTTPServer.Port,
		Mode:             cfg.HTTPServer.Mode,
		Environment:      cfg.Environment.Name,
		WebhookHandler:   webhookHandler,
		WebsocketHandler: transports.hub.Handle,
		MetricsHandler:   m.Handler(),
		ReadyCheck:       store.Ready,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 9. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	// 10. Drain queued deliveries
	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := disp.Stop(drainCtx); err != nil {
		logger.Warnf(ctx, "Dispatcher did not drain: %v", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
