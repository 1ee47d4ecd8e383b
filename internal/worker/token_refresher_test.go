package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/application/services/testhelpers"
	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/avigneau/helloasso-bridge/internal/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTokenRefresher_ExchangesWhenTokenExpired(t *testing.T) {
	api := testhelpers.NewMockProviderAPI()
	store := testhelpers.NewMockTokenStore()
	settings := testhelpers.NewMockSettingsStore(testhelpers.CompleteSettings())
	tokens := services.NewTokenManager(api, store, settings, testLogger())

	w := worker.NewTokenRefresher(tokens, settings, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return store.Stored().AccessToken == "access-cc"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestTokenRefresher_SkipsWhenSettingsIncomplete(t *testing.T) {
	api := testhelpers.NewMockProviderAPI()
	store := testhelpers.NewMockTokenStore()
	settings := testhelpers.NewMockSettingsStore(domain.Settings{TestMode: true})
	tokens := services.NewTokenManager(api, store, settings, testLogger())

	w := worker.NewTokenRefresher(tokens, settings, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	w.Start(ctx)

	assert.Zero(t, api.ClientCredentialsCalls)
	assert.Empty(t, store.Stored().AccessToken)
}

func TestTokenRefresher_ValidTokenMeansNoExchange(t *testing.T) {
	api := testhelpers.NewMockProviderAPI()
	store := testhelpers.NewMockTokenStore()
	store.Seed(domain.Exchanged("warm", "refresh", 1800, time.Now()))
	settings := testhelpers.NewMockSettingsStore(testhelpers.CompleteSettings())
	tokens := services.NewTokenManager(api, store, settings, testLogger())

	w := worker.NewTokenRefresher(tokens, settings, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	w.Start(ctx)

	assert.Zero(t, api.ClientCredentialsCalls)
	assert.Zero(t, api.RefreshTokenCalls)
}
