package webhook

import (
	"forge-relay/internal/subscription"
	pkgLog "forge-relay/pkg/log"
	"forge-relay/pkg/metrics"
)

type Handler struct {
	cfg        Config
	verifier   *Verifier
	guard      *Guard
	parser     *Parser
	dedup      *deduper
	store      subscription.Store
	dispatcher Dispatcher
	l          pkgLog.Logger
	m          *metrics.Metrics
}

func NewHandler(
	cfg Config,
	store subscription.Store,
	dispatcher Dispatcher,
	l pkgLog.Logger,
	m *metrics.Metrics,
) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	return &Handler{
		cfg:        cfg,
		verifier:   NewVerifier(cfg.Secret),
		guard:      NewGuard(cfg.AllowedIPs, cfg.RateLimitPerMin),
		parser:     NewParser(),
		dedup:      newDeduper(cfg.DedupWindow),
		store:      store,
		dispatcher: dispatcher,
		l:          l,
		m:          m,
	}
}
