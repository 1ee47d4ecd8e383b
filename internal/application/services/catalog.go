package services

import (
	"context"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// CatalogService exposes the payable subset of the host's tier catalog.
type CatalogService struct {
	catalog  application.TierCatalog
	settings application.SettingsStore
}

func NewCatalogService(catalog application.TierCatalog, settings application.SettingsStore) *CatalogService {
	return &CatalogService{catalog: catalog, settings: settings}
}

// PayableTiers returns the tiers a payer may pick: inactive tiers and
// non-positive amounts are removed, and anonymous callers only see
// donation tiers.
func (s *CatalogService) PayableTiers(ctx context.Context, loggedIn bool) ([]domain.PricingTier, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, domain.NewPersistenceFailureError("loading settings", err)
	}
	tiers, err := s.catalog.List(ctx)
	if err != nil {
		return nil, domain.NewTransportFailureError("listing pricing tiers", err)
	}
	return domain.FilterTiers(tiers, settings.InactiveTierIDs, loggedIn), nil
}

// AllTiers returns the whole catalog, inactive tiers included. The
// settings surface needs it to resolve stored inactive ids back to
// names.
func (s *CatalogService) AllTiers(ctx context.Context) ([]domain.PricingTier, error) {
	tiers, err := s.catalog.List(ctx)
	if err != nil {
		return nil, domain.NewTransportFailureError("listing pricing tiers", err)
	}
	return tiers, nil
}
