package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxConfig creates and returns a pgxpool.Config with the database connection settings from the DatabaseConfig.
func (c *DatabaseConfig) PgxConfig(ctx context.Context) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(c.connString("postgres"))
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = int32(c.MaxOpenConns)
	cfg.MinConns = int32(c.MaxIdleConns)
	cfg.MaxConnLifetime = c.ConnMaxLifetime
	cfg.MaxConnIdleTime = c.ConnMaxIdleTime
	cfg.HealthCheckPeriod = 30 * time.Second

	return cfg, nil
}

// MigrateURL returns the connection URL for golang-migrate's pgx/v5
// driver.
func (c *DatabaseConfig) MigrateURL() string {
	return c.connString("pgx5")
}

func (c *DatabaseConfig) connString(scheme string) string {
	return fmt.Sprintf(
		"%s://%s:%s@%s:%d/%s?sslmode=%s",
		scheme, c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}
