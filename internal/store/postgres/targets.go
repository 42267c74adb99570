package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"jobradar/internal/store"
	"jobradar/pkg/models"
)

const targetColumns = `id, company_name, careers_url, role_keyword, active, scrape_strategy, created_at, updated_at`

func scanTarget(row pgx.Row) (*models.Target, error) {
	t := &models.Target{}
	err := row.Scan(
		&t.ID, &t.CompanyName, &t.CareersURL, &t.RoleKeyword,
		&t.Active, &t.ScrapeStrategy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListActiveTargets(ctx context.Context) ([]models.Target, error) {
	return s.listTargets(ctx, `SELECT `+targetColumns+` FROM targets WHERE active ORDER BY company_name`)
}

func (s *Store) ListTargets(ctx context.Context) ([]models.Target, error) {
	return s.listTargets(ctx, `SELECT `+targetColumns+` FROM targets ORDER BY company_name`)
}

func (s *Store) listTargets(ctx context.Context, query string) ([]models.Target, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list targets: %w", err)
	}
	defer rows.Close()

	var targets []models.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan target: %w", err)
		}
		targets = append(targets, *t)
	}
	return targets, rows.Err()
}

func (s *Store) GetTarget(ctx context.Context, id string) (*models.Target, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+targetColumns+` FROM targets WHERE id = $1`, id)
	t, err := scanTarget(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get target: %w", err)
	}
	return t, nil
}

func (s *Store) CreateTarget(ctx context.Context, t *models.Target) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.ScrapeStrategy == "" {
		t.ScrapeStrategy = models.StrategyDefault
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO targets (id, company_name, careers_url, role_keyword, active, scrape_strategy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.CompanyName, t.CareersURL, t.RoleKeyword, t.Active, t.ScrapeStrategy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create target: %w", err)
	}
	return nil
}

func (s *Store) UpdateTarget(ctx context.Context, t *models.Target) error {
	t.UpdatedAt = time.Now().UTC()

	tag, err := s.pool.Exec(ctx, `
		UPDATE targets
		SET company_name = $1, careers_url = $2, role_keyword = $3, active = $4, scrape_strategy = $5, updated_at = $6
		WHERE id = $7`,
		t.CompanyName, t.CareersURL, t.RoleKeyword, t.Active, t.ScrapeStrategy, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: update target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTarget(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM targets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
