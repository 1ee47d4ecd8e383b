// Package testhelpers provides in-memory implementations of the
// application ports for service tests. Every method can be overridden
// per-test through its Fn field; the default behavior is a working
// in-memory store.
package testhelpers

import (
	"context"
	"sync"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// MockTokenStore
type MockTokenStore struct {
	mu     sync.Mutex
	tokens domain.TokenSet

	LoadFn func(ctx context.Context) (domain.TokenSet, error)
	SaveFn func(ctx context.Context, tokens domain.TokenSet) error

	SaveCalls int
}

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{}
}

func (m *MockTokenStore) Load(ctx context.Context) (domain.TokenSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	return m.tokens, nil
}

func (m *MockTokenStore) Save(ctx context.Context, tokens domain.TokenSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveFn != nil {
		return m.SaveFn(ctx, tokens)
	}
	m.tokens = tokens
	return nil
}

// Seed installs a stored token set without going through Save.
func (m *MockTokenStore) Seed(tokens domain.TokenSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
}

// Stored returns the last saved token set.
func (m *MockTokenStore) Stored() domain.TokenSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens
}

// MockSettingsStore
type MockSettingsStore struct {
	mu       sync.Mutex
	settings domain.Settings

	LoadFn func(ctx context.Context) (domain.Settings, error)
	SaveFn func(ctx context.Context, settings domain.Settings) error
}

func NewMockSettingsStore(settings domain.Settings) *MockSettingsStore {
	return &MockSettingsStore{settings: settings}
}

func (m *MockSettingsStore) Load(ctx context.Context) (domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	return m.settings, nil
}

func (m *MockSettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveFn != nil {
		return m.SaveFn(ctx, settings)
	}
	m.settings = settings
	return nil
}

func (m *MockSettingsStore) Stored() domain.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// MockHistoryStore keeps the ledger in a slice. WithCheckoutLock uses a
// single mutex: good enough to serialize test goroutines the way the
// advisory lock serializes production ones.
type MockHistoryStore struct {
	mu      sync.Mutex
	lockMu  sync.Mutex
	entries []domain.HistoryEntry
	nextID  int64

	AppendFn        func(ctx context.Context, entry domain.HistoryEntry) (int64, error)
	SetStateFn      func(ctx context.Context, id int64, state domain.ProcessingState) error
	MarkProcessedFn func(ctx context.Context, id int64, checkoutID string) error
}

func NewMockHistoryStore() *MockHistoryStore {
	return &MockHistoryStore{nextID: 1}
}

func (m *MockHistoryStore) Append(ctx context.Context, entry domain.HistoryEntry) (int64, error) {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

func (m *MockHistoryStore) SetState(ctx context.Context, id int64, state domain.ProcessingState) error {
	if m.SetStateFn != nil {
		return m.SetStateFn(ctx, id, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].State = state
			return nil
		}
	}
	return nil
}

func (m *MockHistoryStore) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.HistoryEntry, len(m.entries))
	copy(out, m.entries)
	domain.FlagDuplicates(out)
	return out, nil
}

func (m *MockHistoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.entries)), nil
}

func (m *MockHistoryStore) WithCheckoutLock(ctx context.Context, checkoutID string, fn func(ctx context.Context, tx application.HistoryTx) error) error {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	return fn(ctx, &mockHistoryTx{store: m})
}

// Entry returns a copy of the entry with the given id.
func (m *MockHistoryStore) Entry(id int64) (domain.HistoryEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.HistoryEntry{}, false
}

type mockHistoryTx struct {
	store *MockHistoryStore
}

func (t *mockHistoryTx) ExistsProcessed(ctx context.Context, checkoutID string) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, e := range t.store.entries {
		if e.CheckoutID == checkoutID && e.State == domain.StateProcessed {
			return true, nil
		}
	}
	return false, nil
}

func (t *mockHistoryTx) SetState(ctx context.Context, id int64, state domain.ProcessingState) error {
	return t.store.SetState(ctx, id, state)
}

func (t *mockHistoryTx) MarkProcessed(ctx context.Context, id int64, checkoutID string) error {
	if t.store.MarkProcessedFn != nil {
		return t.store.MarkProcessedFn(ctx, id, checkoutID)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, e := range t.store.entries {
		if e.CheckoutID == checkoutID && e.State == domain.StateProcessed {
			return application.ErrCheckoutAlreadyProcessed
		}
	}
	for i := range t.store.entries {
		if t.store.entries[i].ID == id {
			t.store.entries[i].State = domain.StateProcessed
			return nil
		}
	}
	return nil
}

// MockProviderAPI
type MockProviderAPI struct {
	mu sync.Mutex

	ExchangeClientCredentialsFn func(ctx context.Context, sandbox bool, clientID, clientSecret string) (*application.TokenGrant, error)
	ExchangeRefreshTokenFn      func(ctx context.Context, sandbox bool, clientID, refreshToken string) (*application.TokenGrant, error)
	CreateCheckoutIntentFn      func(ctx context.Context, sandbox bool, slug, accessToken string, req application.CheckoutIntentRequest) (*application.CheckoutIntentResponse, error)
	GetOrganizationFn           func(ctx context.Context, sandbox bool, slug, accessToken string) (*application.Organization, error)

	ClientCredentialsCalls int
	RefreshTokenCalls      int
	CheckoutCalls          int
}

func NewMockProviderAPI() *MockProviderAPI {
	return &MockProviderAPI{}
}

func (m *MockProviderAPI) ExchangeClientCredentials(ctx context.Context, sandbox bool, clientID, clientSecret string) (*application.TokenGrant, error) {
	m.mu.Lock()
	m.ClientCredentialsCalls++
	m.mu.Unlock()
	if m.ExchangeClientCredentialsFn != nil {
		return m.ExchangeClientCredentialsFn(ctx, sandbox, clientID, clientSecret)
	}
	return &application.TokenGrant{AccessToken: "access-cc", RefreshToken: "refresh-cc", ExpiresIn: 1800}, nil
}

func (m *MockProviderAPI) ExchangeRefreshToken(ctx context.Context, sandbox bool, clientID, refreshToken string) (*application.TokenGrant, error) {
	m.mu.Lock()
	m.RefreshTokenCalls++
	m.mu.Unlock()
	if m.ExchangeRefreshTokenFn != nil {
		return m.ExchangeRefreshTokenFn(ctx, sandbox, clientID, refreshToken)
	}
	return &application.TokenGrant{AccessToken: "access-rt", RefreshToken: "refresh-rt", ExpiresIn: 1800}, nil
}

func (m *MockProviderAPI) CreateCheckoutIntent(ctx context.Context, sandbox bool, slug, accessToken string, req application.CheckoutIntentRequest) (*application.CheckoutIntentResponse, error) {
	m.mu.Lock()
	m.CheckoutCalls++
	m.mu.Unlock()
	if m.CreateCheckoutIntentFn != nil {
		return m.CreateCheckoutIntentFn(ctx, sandbox, slug, accessToken, req)
	}
	return &application.CheckoutIntentResponse{ID: 1, RedirectURL: "https://pay.example/intent/1"}, nil
}

func (m *MockProviderAPI) GetOrganization(ctx context.Context, sandbox bool, slug, accessToken string) (*application.Organization, error) {
	if m.GetOrganizationFn != nil {
		return m.GetOrganizationFn(ctx, sandbox, slug, accessToken)
	}
	return &application.Organization{Name: "Test Org", Slug: slug}, nil
}

// MockContributionService
type MockContributionService struct {
	mu      sync.Mutex
	created []domain.Contribution

	ValidateFn func(ctx context.Context, c domain.Contribution) error
	CreateFn   func(ctx context.Context, c domain.Contribution) error
}

func NewMockContributionService() *MockContributionService {
	return &MockContributionService{}
}

func (m *MockContributionService) Validate(ctx context.Context, c domain.Contribution) error {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, c)
	}
	return nil
}

func (m *MockContributionService) Create(ctx context.Context, c domain.Contribution) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, c)
	return nil
}

func (m *MockContributionService) Created() []domain.Contribution {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Contribution, len(m.created))
	copy(out, m.created)
	return out
}

// MockTierCatalog
type MockTierCatalog struct {
	Tiers  []domain.PricingTier
	ListFn func(ctx context.Context) ([]domain.PricingTier, error)
}

func NewMockTierCatalog(tiers ...domain.PricingTier) *MockTierCatalog {
	return &MockTierCatalog{Tiers: tiers}
}

func (m *MockTierCatalog) List(ctx context.Context) ([]domain.PricingTier, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Tiers, nil
}
