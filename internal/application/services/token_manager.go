package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// TokenManager owns the process-wide token pair. All consumers go
// through ValidTokens, which serializes concurrent refreshes behind a
// mutex so a single-use refresh token is never spent twice by this
// process.
type TokenManager struct {
	api      application.ProviderAPI
	store    application.TokenStore
	settings application.SettingsStore
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	tokens domain.TokenSet
	loaded bool
}

func NewTokenManager(
	api application.ProviderAPI,
	store application.TokenStore,
	settings application.SettingsStore,
	logger *slog.Logger,
) *TokenManager {
	return &TokenManager{
		api:      api,
		store:    store,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// ValidTokens returns a token set whose access token is not expired at
// the moment of return, performing a grant exchange when needed. No
// network call happens while the cached access token is still valid.
// Exchange failures are surfaced to the caller; retrying is the
// caller's decision.
func (m *TokenManager) ValidTokens(ctx context.Context) (domain.TokenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		tokens, err := m.store.Load(ctx)
		if err != nil {
			// Proceed with an empty set: the exchange below rebuilds
			// usable credentials for this process lifetime.
			m.logger.Warn("failed to load stored tokens", "error", err)
		} else {
			m.tokens = tokens
			m.loaded = true
		}
	}

	now := m.now()
	if !m.tokens.AccessTokenExpired(now) {
		return m.tokens, nil
	}

	settings, err := m.settings.Load(ctx)
	if err != nil {
		return domain.TokenSet{}, domain.NewPersistenceFailureError("loading provider settings", err)
	}
	if ok, missing := settings.Complete(); !ok {
		return domain.TokenSet{}, domain.NewConfigurationIncompleteError(missing)
	}

	grant, err := m.exchange(ctx, settings, now)
	if err != nil {
		m.logger.Error("token exchange failed", "error", err)
		return domain.TokenSet{}, domain.NewTransportFailureError("token exchange", err)
	}

	m.tokens = domain.Exchanged(grant.AccessToken, grant.RefreshToken, grant.ExpiresIn, m.now())
	m.loaded = true

	if err := m.store.Save(ctx, m.tokens); err != nil {
		// Not fatal: the tokens stay usable for this process lifetime.
		m.logger.Warn("failed to persist tokens", "error", err)
	}

	return m.tokens, nil
}

// exchange picks the grant: refresh-token while the refresh token is
// still valid, client-credentials otherwise. A failed refresh exchange
// usually means a concurrent process spent the single-use token; the
// stale token is discarded and credentials are reacquired.
func (m *TokenManager) exchange(ctx context.Context, settings domain.Settings, now time.Time) (*application.TokenGrant, error) {
	if !m.tokens.RefreshTokenExpired(now) {
		grant, err := m.api.ExchangeRefreshToken(ctx, settings.TestMode, settings.ClientID, m.tokens.RefreshToken)
		if err == nil {
			return grant, nil
		}
		m.logger.Warn("refresh token exchange failed, reacquiring credentials", "error", err)
	}
	return m.api.ExchangeClientCredentials(ctx, settings.TestMode, settings.ClientID, settings.ClientSecret)
}
