// Package application defines the ports the bridge's services depend
// on. Infrastructure packages provide the implementations.
package application

import (
	"context"

	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// TokenStore persists the current token pair. Save writes all four
// fields atomically: a reader must never observe an access token paired
// with a refresh token from a different exchange.
type TokenStore interface {
	Load(ctx context.Context) (domain.TokenSet, error)
	Save(ctx context.Context, tokens domain.TokenSet) error
}

// SettingsStore persists the organization-level preferences.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// HistoryTx is the view of the history ledger available under a
// per-checkout lock.
type HistoryTx interface {
	ExistsProcessed(ctx context.Context, checkoutID string) (bool, error)
	SetState(ctx context.Context, id int64, state domain.ProcessingState) error
	// MarkProcessed sets PROCESSED, enforcing that at most one entry per
	// checkout id ever reaches that state. A second attempt returns
	// ErrCheckoutAlreadyProcessed.
	MarkProcessed(ctx context.Context, id int64, checkoutID string) error
}

// HistoryStore is the append-only notification ledger.
type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) (int64, error)
	SetState(ctx context.Context, id int64, state domain.ProcessingState) error
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error)
	Count(ctx context.Context) (int64, error)
	// WithCheckoutLock runs fn while holding an exclusive lock keyed by
	// checkoutID, serializing concurrent deliveries of the same payment.
	WithCheckoutLock(ctx context.Context, checkoutID string, fn func(ctx context.Context, tx HistoryTx) error) error
}

// ProviderAPI is the outbound HelloAsso surface: the OAuth2 token
// endpoint and the v5 organization API. sandbox selects the test host.
type ProviderAPI interface {
	ExchangeClientCredentials(ctx context.Context, sandbox bool, clientID, clientSecret string) (*TokenGrant, error)
	ExchangeRefreshToken(ctx context.Context, sandbox bool, clientID, refreshToken string) (*TokenGrant, error)
	CreateCheckoutIntent(ctx context.Context, sandbox bool, slug, accessToken string, req CheckoutIntentRequest) (*CheckoutIntentResponse, error)
	GetOrganization(ctx context.Context, sandbox bool, slug, accessToken string) (*Organization, error)
}

// ContributionService is the host application's accounting collaborator.
// Validate surfaces the host's business rules (tier existence, member
// existence, overlapping periods) before Create stores the record.
type ContributionService interface {
	Validate(ctx context.Context, c domain.Contribution) error
	Create(ctx context.Context, c domain.Contribution) error
}

// TierCatalog reads the host application's contribution type catalog.
type TierCatalog interface {
	List(ctx context.Context) ([]domain.PricingTier, error)
}

// TokenGrant is the provider's response to a successful token exchange.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Payer identifies the person paying a checkout. All fields optional.
type Payer struct {
	FirstName   string
	LastName    string
	Email       string
	Address     string
	City        string
	ZipCode     string
	CompanyName string
}

// CheckoutIntentRequest is the payload for the checkout-intent endpoint.
type CheckoutIntentRequest struct {
	TotalAmount      int64 // minor currency units
	InitialAmount    int64
	ItemName         string
	BackURL          string
	ErrorURL         string
	ReturnURL        string
	ContainsDonation bool
	Payer            Payer
	Metadata         map[string]string
}

// CheckoutIntentResponse carries the provider-side intent id and the URL
// the payer must be redirected to.
type CheckoutIntentResponse struct {
	ID          int64
	RedirectURL string
}

// Organization is the provider's view of the configured organization,
// used by the settings surface to verify credentials.
type Organization struct {
	Name string
	Slug string
	City string
	URL  string
}
