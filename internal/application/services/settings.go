package services

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// SettingsInput is an operator-submitted settings update. The provider
// credentials may be set incrementally; completeness is only required
// when a payment flow actually needs them.
type SettingsInput struct {
	TestMode         bool   `validate:"-"`
	OrganizationSlug string `validate:"omitempty,max=255"`
	ClientID         string `validate:"omitempty,max=255"`
	ClientSecret     string `validate:"omitempty,max=255"`
	InactiveTierIDs  []int  `validate:"dive,min=1"`
}

// SettingsResult reports what happened to a settings update. Exactly
// one of Stored/Rejected holds: either Settings is the persisted state,
// or Rejected echoes the refused input with per-field reasons.
type SettingsResult struct {
	Stored      bool
	Settings    domain.Settings
	Rejected    *SettingsInput
	FieldErrors map[string]string
}

type SettingsService struct {
	store    application.SettingsStore
	api      application.ProviderAPI
	tokens   *TokenManager
	validate *validator.Validate
	logger   *slog.Logger
}

func NewSettingsService(
	store application.SettingsStore,
	api application.ProviderAPI,
	tokens *TokenManager,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		store:    store,
		api:      api,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// Current returns the persisted settings.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	settings, err := s.store.Load(ctx)
	if err != nil {
		return domain.Settings{}, domain.NewPersistenceFailureError("loading settings", err)
	}
	return settings, nil
}

// Store validates and persists a settings update. A rejected input is
// reported in the result, not as an error: the caller re-renders the
// submitted values with the per-field reasons.
func (s *SettingsService) Store(ctx context.Context, input SettingsInput) (SettingsResult, error) {
	if err := s.validate.Struct(input); err != nil {
		fieldErrors := make(map[string]string)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fieldErrors[fe.Field()] = fe.Tag()
			}
		}
		s.logger.Warn("settings update rejected", "field_errors", fieldErrors)
		return SettingsResult{Rejected: &input, FieldErrors: fieldErrors}, nil
	}

	settings := domain.Settings{
		TestMode:         input.TestMode,
		OrganizationSlug: input.OrganizationSlug,
		ClientID:         input.ClientID,
		ClientSecret:     input.ClientSecret,
		InactiveTierIDs:  input.InactiveTierIDs,
	}

	if err := s.store.Save(ctx, settings); err != nil {
		return SettingsResult{}, domain.NewPersistenceFailureError("saving settings", err)
	}

	s.logger.Info("settings updated",
		"test_mode", settings.TestMode,
		"organization_slug", settings.OrganizationSlug)

	return SettingsResult{Stored: true, Settings: settings}, nil
}

// VerifyOrganization checks the stored credentials by fetching the
// configured organization from the provider. A successful fetch proves
// client id, secret, slug and mode are mutually consistent.
func (s *SettingsService) VerifyOrganization(ctx context.Context) (*application.Organization, error) {
	settings, err := s.store.Load(ctx)
	if err != nil {
		return nil, domain.NewPersistenceFailureError("loading settings", err)
	}
	if ok, missing := settings.Complete(); !ok {
		return nil, domain.NewConfigurationIncompleteError(missing)
	}

	tokens, err := s.tokens.ValidTokens(ctx)
	if err != nil {
		return nil, err
	}

	org, err := s.api.GetOrganization(ctx, settings.TestMode, settings.OrganizationSlug, tokens.AccessToken)
	if err != nil {
		return nil, domain.NewTransportFailureError("fetching organization", err)
	}
	return org, nil
}
