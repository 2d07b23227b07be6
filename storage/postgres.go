package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotmart-price-sync/config"
)

// PostgresStore updates the price table over a direct database
// connection, for deployments that talk to the Supabase Postgres pooler
// instead of the REST API.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresStore{pool: pool, table: cfg.PriceTable}, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	schemaCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	table := pgx.Identifier{s.table}.Sanitize()
	sql := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		country_code TEXT PRIMARY KEY,
		country_name TEXT,
		price NUMERIC(12,2),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`, table)

	if _, err := s.pool.Exec(schemaCtx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

func (s *PostgresStore) UpdatePrice(ctx context.Context, countryCode string, amount float64) error {
	table := pgx.Identifier{s.table}.Sanitize()
	sql := fmt.Sprintf(`UPDATE %s SET price = $1, updated_at = NOW() WHERE country_code = $2`, table)

	tag, err := s.pool.Exec(ctx, sql, amount, countryCode)
	if err != nil {
		return &UpdateError{CountryCode: countryCode, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &UpdateError{CountryCode: countryCode, Err: ErrCountryNotTracked}
	}
	return nil
}
