package postgres

import (
	"context"
	"fmt"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// Preference row names, kept compatible with the plugin's historical
// layout.
const (
	prefTestMode  = "helloasso_test_mode"
	prefSlug      = "helloasso_organization_slug"
	prefClientID  = "helloasso_client_id"
	prefSecret    = "helloasso_client_secret"
	prefInactives = "helloasso_inactives"
)

// SettingsRepository persists organization settings in the key/value
// preferences table.
type SettingsRepository struct {
	db *DB
}

var _ application.SettingsStore = (*SettingsRepository)(nil)

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings

	rows, err := r.db.Pool.Query(ctx, `SELECT name, value FROM preferences`)
	if err != nil {
		return settings, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return settings, fmt.Errorf("failed to scan preference row: %w", err)
		}
		switch name {
		case prefTestMode:
			settings.TestMode = value == "1"
		case prefSlug:
			settings.OrganizationSlug = value
		case prefClientID:
			settings.ClientID = value
		case prefSecret:
			settings.ClientSecret = value
		case prefInactives:
			ids, err := domain.ParseInactiveTierIDs(value)
			if err != nil {
				return settings, fmt.Errorf("corrupted inactive tier list %q: %w", value, err)
			}
			settings.InactiveTierIDs = ids
		default:
			r.db.logger.Warn("unknown preference in the database", "name", name)
		}
	}
	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("failed to read preference rows: %w", err)
	}

	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	testMode := ""
	if settings.TestMode {
		testMode = "1"
	}

	values := map[string]string{
		prefTestMode:  testMode,
		prefSlug:      settings.OrganizationSlug,
		prefClientID:  settings.ClientID,
		prefSecret:    settings.ClientSecret,
		prefInactives: domain.FormatInactiveTierIDs(settings.InactiveTierIDs),
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO preferences (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value
	`
	for name, value := range values {
		if _, err := tx.Exec(ctx, query, name, value); err != nil {
			return fmt.Errorf("failed to store preference %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
