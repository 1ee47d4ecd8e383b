package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// CheckoutCommand describes a member-initiated payment about to be
// handed off to the provider's hosted checkout page.
type CheckoutCommand struct {
	TierID      int
	AmountCents int64
	LoggedIn    bool
	MemberID    int
	Payer       application.Payer
}

// CheckoutIntent is the provider's answer: the URL the payer must be
// redirected to, plus the intent identifier for correlation.
type CheckoutIntent struct {
	ID          int64
	RedirectURL string
}

type CheckoutService struct {
	tokens    *TokenManager
	api       application.ProviderAPI
	catalog   application.TierCatalog
	settings  application.SettingsStore
	publicURL string
	logger    *slog.Logger
}

func NewCheckoutService(
	tokens *TokenManager,
	api application.ProviderAPI,
	catalog application.TierCatalog,
	settings application.SettingsStore,
	publicURL string,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		tokens:    tokens,
		api:       api,
		catalog:   catalog,
		settings:  settings,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// CreateCheckout validates the requested tier and amount, then creates
// a checkout intent with the provider. The amount floor is enforced
// before any network call: an underpayment never reaches the provider.
func (s *CheckoutService) CreateCheckout(ctx context.Context, cmd CheckoutCommand) (*CheckoutIntent, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, domain.NewPersistenceFailureError("loading provider settings", err)
	}
	if ok, missing := settings.Complete(); !ok {
		return nil, domain.NewConfigurationIncompleteError(missing)
	}

	tiers, err := s.catalog.List(ctx)
	if err != nil {
		return nil, domain.NewTransportFailureError("listing pricing tiers", err)
	}

	tier, ok := findTier(domain.FilterTiers(tiers, settings.InactiveTierIDs, cmd.LoggedIn), cmd.TierID)
	if !ok {
		return nil, domain.NewUnknownTierError(cmd.TierID)
	}

	if minimum := tier.MinimumCents(); cmd.AmountCents < minimum {
		return nil, domain.NewAmountBelowMinimumError(cmd.AmountCents, minimum)
	}

	tokens, err := s.tokens.ValidTokens(ctx)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"item_id":   strconv.Itoa(tier.ID),
		"item_name": tier.Name,
	}
	if cmd.MemberID > 0 {
		metadata["member_id"] = strconv.Itoa(cmd.MemberID)
	}

	req := application.CheckoutIntentRequest{
		TotalAmount:      cmd.AmountCents,
		InitialAmount:    cmd.AmountCents,
		ItemName:         tier.Name,
		BackURL:          s.publicURL + "/checkout/cancel",
		ErrorURL:         s.publicURL + "/checkout/error",
		ReturnURL:        s.publicURL + "/checkout/success",
		ContainsDonation: tier.ContainsDonation(),
		Payer:            cmd.Payer,
		Metadata:         metadata,
	}

	resp, err := s.api.CreateCheckoutIntent(ctx, settings.TestMode, settings.OrganizationSlug, tokens.AccessToken, req)
	if err != nil {
		return nil, domain.NewTransportFailureError("creating checkout intent", err)
	}

	s.logger.Info("checkout intent created",
		"intent_id", resp.ID,
		"tier_id", tier.ID,
		"amount_cents", cmd.AmountCents)

	return &CheckoutIntent{ID: resp.ID, RedirectURL: resp.RedirectURL}, nil
}

func findTier(tiers []domain.PricingTier, id int) (domain.PricingTier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return domain.PricingTier{}, false
}
