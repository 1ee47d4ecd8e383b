package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

const (
	tokenTypeAccess  = "access_token"
	tokenTypeRefresh = "refresh_token"
)

// TokenRepository persists the token pair in the two-row tokens table.
type TokenRepository struct {
	db *DB
}

var _ application.TokenStore = (*TokenRepository)(nil)

func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Load reads both token rows inside one transaction so a concurrent
// Save cannot produce a mixed pair.
func (r *TokenRepository) Load(ctx context.Context) (domain.TokenSet, error) {
	var tokens domain.TokenSet

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return tokens, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT type, value, expiry FROM tokens`)
	if err != nil {
		return tokens, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tokenType string
			value     string
			expiry    *time.Time
		)
		if err := rows.Scan(&tokenType, &value, &expiry); err != nil {
			return tokens, fmt.Errorf("failed to scan token row: %w", err)
		}
		switch tokenType {
		case tokenTypeAccess:
			tokens.AccessToken = value
			tokens.AccessTokenExpiry = expiry
		case tokenTypeRefresh:
			tokens.RefreshToken = value
			tokens.RefreshTokenExpiry = expiry
		}
	}
	if err := rows.Err(); err != nil {
		return tokens, fmt.Errorf("failed to read token rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return tokens, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tokens, nil
}

// Save writes both token rows in one transaction. All four fields are
// updated together; partial persistence is never observable.
func (r *TokenRepository) Save(ctx context.Context, tokens domain.TokenSet) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tokens (type, value, expiry)
		VALUES ($1, $2, $3)
		ON CONFLICT (type) DO UPDATE SET value = EXCLUDED.value, expiry = EXCLUDED.expiry
	`
	if _, err := tx.Exec(ctx, query, tokenTypeAccess, tokens.AccessToken, tokens.AccessTokenExpiry); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if _, err := tx.Exec(ctx, query, tokenTypeRefresh, tokens.RefreshToken, tokens.RefreshTokenExpiry); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
