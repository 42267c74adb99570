// Package postgres implements the store interfaces on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobradar/internal/config"
	"jobradar/internal/store"
)

// Ensure Store implements the persistence surface.
var _ store.Store = (*Store)(nil)

// Store is a PostgreSQL-backed implementation of store.Store.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the configured database and prepares the schema.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("postgres: database URL not configured")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.ConnConfig.ConnectTimeout = cfg.Database.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS targets (
		id              TEXT PRIMARY KEY,
		company_name    TEXT NOT NULL,
		careers_url     TEXT NOT NULL,
		role_keyword    TEXT NOT NULL,
		active          BOOLEAN NOT NULL DEFAULT TRUE,
		scrape_strategy TEXT NOT NULL DEFAULT 'default',
		created_at      TIMESTAMPTZ NOT NULL,
		updated_at      TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id               TEXT PRIMARY KEY,
		dedup_key        TEXT NOT NULL,
		target_id        TEXT NOT NULL,
		company_name     TEXT NOT NULL,
		title            TEXT NOT NULL,
		url              TEXT NOT NULL,
		location         TEXT NOT NULL DEFAULT '',
		posted_date      TEXT NOT NULL DEFAULT '',
		role_keyword     TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'new',
		notes            TEXT NOT NULL DEFAULT '',
		referral_contact TEXT NOT NULL DEFAULT '',
		found_at         TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS jobs_dedup_key_idx ON jobs (dedup_key);
	CREATE INDEX IF NOT EXISTS jobs_target_id_idx ON jobs (target_id);
	CREATE INDEX IF NOT EXISTS jobs_found_at_idx ON jobs (found_at DESC);
	`

	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
