package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/application/services/testhelpers"
	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest"
	"github.com/avigneau/helloasso-bridge/internal/interfaces/rest/handlers"
)

type fixture struct {
	api           *testhelpers.MockProviderAPI
	history       *testhelpers.MockHistoryStore
	contributions *testhelpers.MockContributionService
	settings      *testhelpers.MockSettingsStore
	catalog       *testhelpers.MockTierCatalog
	server        http.Handler
}

func newFixture(tiers ...domain.PricingTier) *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		api:           testhelpers.NewMockProviderAPI(),
		history:       testhelpers.NewMockHistoryStore(),
		contributions: testhelpers.NewMockContributionService(),
		settings:      testhelpers.NewMockSettingsStore(testhelpers.CompleteSettings()),
		catalog:       testhelpers.NewMockTierCatalog(tiers...),
	}

	tokenStore := testhelpers.NewMockTokenStore()
	tokenStore.Seed(domain.Exchanged("access", "refresh", 1800, time.Now()))
	tokens := services.NewTokenManager(f.api, tokenStore, f.settings, logger)

	h := handlers.NewHandlers(
		services.NewWebhookService(f.history, f.contributions, f.settings, testhelpers.SourceIPFor, "membership", logger),
		services.NewCheckoutService(tokens, f.api, f.catalog, f.settings, "https://asso.example", logger),
		services.NewHistoryService(f.history),
		services.NewSettingsService(f.settings, f.api, tokens, logger),
		services.NewCatalogService(f.catalog, f.settings),
		logger,
	)
	f.server = handlers.NewRouter(h, logger, 5*time.Second)
	return f
}

func (f *fixture) do(t *testing.T, method, target, remoteAddr, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestWebhookEndpoint_AcknowledgesSettledPayment(t *testing.T) {
	f := newFixture()
	body := string(testhelpers.NotificationBody(testhelpers.DefaultNotificationFields()))

	rec := f.do(t, http.MethodPost, "/webhook", testhelpers.TestSourceIP+":52000", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.contributions.Created(), 1)
}

func TestWebhookEndpoint_RejectsForeignSource(t *testing.T) {
	f := newFixture()
	body := string(testhelpers.NotificationBody(testhelpers.DefaultNotificationFields()))

	rec := f.do(t, http.MethodPost, "/webhook", "198.51.100.7:52000", body)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.contributions.Created())
}

func TestCheckoutEndpoint_ReturnsRedirectURL(t *testing.T) {
	f := newFixture(domain.PricingTier{ID: 4, Amount: 25, Name: "annual"})

	rec := f.do(t, http.MethodPost, "/checkout", "",
		`{"tier_id": 4, "amount_cents": 2500, "logged_in": true, "member_id": 42,
		  "payer": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.org"}}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			IntentID    int64  `json:"intent_id"`
			RedirectURL string `json:"redirect_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://pay.example/intent/1", resp.Data.RedirectURL)
}

func TestCheckoutEndpoint_AmountBelowMinimum(t *testing.T) {
	f := newFixture(domain.PricingTier{ID: 4, Amount: 25, Name: "annual"})

	rec := f.do(t, http.MethodPost, "/checkout", "",
		`{"tier_id": 4, "amount_cents": 100, "logged_in": true, "member_id": 42}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.api.CheckoutCalls)

	var resp rest.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrCodeAmountBelowMinimum, resp.Error.Code)
}

func TestCheckoutEndpoint_UnknownTierIs404(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/checkout", "",
		`{"tier_id": 9, "amount_cents": 2500, "logged_in": true}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutEndpoint_MalformedBody(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/checkout", "", `{broken`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint_ListsEntries(t *testing.T) {
	f := newFixture()
	body := string(testhelpers.NotificationBody(testhelpers.DefaultNotificationFields()))
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/webhook", testhelpers.TestSourceIP+":52000", body).Code)

	rec := f.do(t, http.MethodGet, "/history?page=1&page_size=10", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Entries []struct {
				CheckoutID string `json:"checkout_id"`
				State      string `json:"state"`
			} `json:"entries"`
			Total int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	require.Len(t, resp.Data.Entries, 1)
	assert.Equal(t, "12345", resp.Data.Entries[0].CheckoutID)
	assert.Equal(t, "PROCESSED", resp.Data.Entries[0].State)
}

func TestSettingsEndpoint_RoundTrip(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPut, "/settings", "",
		`{"test_mode": false, "organization_slug": "new-slug", "client_id": "id", "client_secret": "secret", "inactive_tier_ids": [3]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/settings", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			OrganizationSlug string `json:"organization_slug"`
			InactiveTierIDs  []int  `json:"inactive_tier_ids"`
			Complete         bool   `json:"complete"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new-slug", resp.Data.OrganizationSlug)
	assert.Equal(t, []int{3}, resp.Data.InactiveTierIDs)
	assert.True(t, resp.Data.Complete)
}

func TestSettingsEndpoint_RejectedInputIs422(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPut, "/settings", "",
		`{"organization_slug": "`+strings.Repeat("x", 300)+`"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "field_errors")
}

func TestTiersEndpoint_FiltersForAnonymous(t *testing.T) {
	f := newFixture(
		domain.PricingTier{ID: 1, Amount: 25, Name: "annual"},
		domain.PricingTier{ID: 2, Amount: 5, Name: "donation", DonationExtra: true},
	)

	rec := f.do(t, http.MethodGet, "/tiers?logged_in=false", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Data[0].ID)
}

func TestTiersEndpoint_AllReturnsUnfilteredCatalog(t *testing.T) {
	f := newFixture(
		domain.PricingTier{ID: 1, Amount: 25, Name: "annual"},
		domain.PricingTier{ID: 2, Amount: 40, Name: "disabled"},
	)
	settings := testhelpers.CompleteSettings()
	settings.InactiveTierIDs = []int{2}
	require.NoError(t, f.settings.Save(context.Background(), settings))

	rec := f.do(t, http.MethodGet, "/tiers?all=true", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "disabled", resp.Data[1].Name)

	// The payable view still hides the inactive tier.
	rec = f.do(t, http.MethodGet, "/tiers?logged_in=true", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var filtered struct {
		Data []struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, 1, filtered.Data[0].ID)
}

func TestHealthzEndpoint(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
