// Package worker hosts the background loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// TokenRefresher keeps the access token warm so interactive checkouts
// rarely pay the exchange round-trip. It is an optimization only: the
// on-demand path in the token manager stays authoritative, and every
// failure here is just logged.
type TokenRefresher struct {
	tokens   *services.TokenManager
	settings application.SettingsStore
	interval time.Duration
	logger   *slog.Logger
}

func NewTokenRefresher(
	tokens *services.TokenManager,
	settings application.SettingsStore,
	interval time.Duration,
	logger *slog.Logger,
) *TokenRefresher {
	return &TokenRefresher{
		tokens:   tokens,
		settings: settings,
		interval: interval,
		logger:   logger,
	}
}

func (w *TokenRefresher) Start(ctx context.Context) {
	w.logger.Info("token refresher started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("token refresher stopping")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *TokenRefresher) refresh(ctx context.Context) {
	settings, err := w.settings.Load(ctx)
	if err != nil {
		w.logger.Error("token refresh skipped, settings unavailable", "error", err)
		return
	}
	if ok, _ := settings.Complete(); !ok {
		// Nothing to refresh until the operator finishes configuration.
		return
	}

	if _, err := w.tokens.ValidTokens(ctx); err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeConfigurationIncomplete) {
			return
		}
		w.logger.Warn("proactive token refresh failed", "error", err)
	}
}
