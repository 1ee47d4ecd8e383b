package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/application/services"
	"github.com/avigneau/helloasso-bridge/internal/application/services/testhelpers"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

func newSettingsService(store *testhelpers.MockSettingsStore, api *testhelpers.MockProviderAPI) *services.SettingsService {
	tokenStore := testhelpers.NewMockTokenStore()
	tokenStore.Seed(domain.Exchanged("access", "refresh", 1800, time.Now()))
	tokens := services.NewTokenManager(api, tokenStore, store, testLogger())
	return services.NewSettingsService(store, api, tokens, testLogger())
}

func TestSettings_StoreValidInputPersists(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMockSettingsStore(domain.Settings{})
	svc := newSettingsService(store, testhelpers.NewMockProviderAPI())

	result, err := svc.Store(ctx, services.SettingsInput{
		TestMode:         true,
		OrganizationSlug: "my-asso",
		ClientID:         "id",
		ClientSecret:     "secret",
		InactiveTierIDs:  []int{3, 5},
	})
	require.NoError(t, err)
	assert.True(t, result.Stored)
	assert.Nil(t, result.Rejected)

	stored := store.Stored()
	assert.True(t, stored.TestMode)
	assert.Equal(t, "my-asso", stored.OrganizationSlug)
	assert.Equal(t, []int{3, 5}, stored.InactiveTierIDs)
}

func TestSettings_StoreRejectedInputReportsFields(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMockSettingsStore(testhelpers.CompleteSettings())
	svc := newSettingsService(store, testhelpers.NewMockProviderAPI())

	input := services.SettingsInput{
		OrganizationSlug: strings.Repeat("x", 300),
		InactiveTierIDs:  []int{0},
	}
	result, err := svc.Store(ctx, input)
	require.NoError(t, err)

	assert.False(t, result.Stored)
	require.NotNil(t, result.Rejected)
	assert.Equal(t, input.OrganizationSlug, result.Rejected.OrganizationSlug)
	assert.Contains(t, result.FieldErrors, "OrganizationSlug")

	// Persisted state untouched.
	assert.Equal(t, "my-asso", store.Stored().OrganizationSlug)
}

func TestSettings_StorePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMockSettingsStore(domain.Settings{})
	store.SaveFn = func(ctx context.Context, settings domain.Settings) error {
		return errors.New("database is down")
	}
	svc := newSettingsService(store, testhelpers.NewMockProviderAPI())

	_, err := svc.Store(ctx, services.SettingsInput{OrganizationSlug: "my-asso"})
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodePersistenceFailure))
}

func TestSettings_VerifyOrganization(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMockSettingsStore(testhelpers.CompleteSettings())
	api := testhelpers.NewMockProviderAPI()
	api.GetOrganizationFn = func(ctx context.Context, sandbox bool, slug, accessToken string) (*application.Organization, error) {
		assert.True(t, sandbox)
		assert.Equal(t, "my-asso", slug)
		assert.Equal(t, "access", accessToken)
		return &application.Organization{Name: "My Association", Slug: slug, City: "Lyon"}, nil
	}
	svc := newSettingsService(store, api)

	org, err := svc.VerifyOrganization(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Association", org.Name)
}

func TestSettings_VerifyOrganizationIncompleteSettings(t *testing.T) {
	ctx := context.Background()
	store := testhelpers.NewMockSettingsStore(domain.Settings{})
	svc := newSettingsService(store, testhelpers.NewMockProviderAPI())

	_, err := svc.VerifyOrganization(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeConfigurationIncomplete))
}

func TestCatalog_PayableTiersAppliesSettings(t *testing.T) {
	ctx := context.Background()
	settings := testhelpers.CompleteSettings()
	settings.InactiveTierIDs = []int{2}
	store := testhelpers.NewMockSettingsStore(settings)
	catalog := testhelpers.NewMockTierCatalog(
		domain.PricingTier{ID: 1, Amount: 25, Name: "annual"},
		domain.PricingTier{ID: 2, Amount: 40, Name: "disabled"},
		domain.PricingTier{ID: 3, Amount: 5, Name: "donation", DonationExtra: true},
		domain.PricingTier{ID: 4, Amount: 0, Name: "free"},
	)
	svc := services.NewCatalogService(catalog, store)

	loggedIn, err := svc.PayableTiers(ctx, true)
	require.NoError(t, err)
	require.Len(t, loggedIn, 2)
	assert.Equal(t, 1, loggedIn[0].ID)
	assert.Equal(t, 3, loggedIn[1].ID)

	anonymous, err := svc.PayableTiers(ctx, false)
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.Equal(t, 3, anonymous[0].ID)
}

func TestCatalog_AllTiersIncludesInactiveAndMemberOnly(t *testing.T) {
	ctx := context.Background()
	settings := testhelpers.CompleteSettings()
	settings.InactiveTierIDs = []int{2}
	store := testhelpers.NewMockSettingsStore(settings)
	catalog := testhelpers.NewMockTierCatalog(
		domain.PricingTier{ID: 1, Amount: 25, Name: "annual"},
		domain.PricingTier{ID: 2, Amount: 40, Name: "disabled"},
		domain.PricingTier{ID: 3, Amount: 5, Name: "donation", DonationExtra: true},
	)
	svc := services.NewCatalogService(catalog, store)

	// The settings screen needs the disabled tier to offer re-activation.
	all, err := svc.AllTiers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "disabled", all[1].Name)

	payable, err := svc.PayableTiers(ctx, true)
	require.NoError(t, err)
	require.Len(t, payable, 2)
}

func TestHistory_ListReturnsEntriesAndTotal(t *testing.T) {
	ctx := context.Background()
	history := testhelpers.NewMockHistoryStore()
	for _, checkout := range []string{"100", "101", "100"} {
		_, err := history.Append(ctx, domain.HistoryEntry{
			ReceivedAt:  time.Now(),
			CheckoutID:  checkout,
			AmountCents: 2500,
			RawRequest:  "{}",
		})
		require.NoError(t, err)
	}
	svc := services.NewHistoryService(history)

	entries, total, err := svc.List(ctx, domain.HistoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, entries, 3)
	assert.False(t, entries[0].Duplicate)
	assert.True(t, entries[2].Duplicate)
}
