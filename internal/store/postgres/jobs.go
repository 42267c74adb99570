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

const jobColumns = `id, dedup_key, target_id, company_name, title, url, location, posted_date, role_keyword, status, notes, referral_contact, found_at, updated_at`

func scanJob(row pgx.Row) (*models.JobRecord, error) {
	j := &models.JobRecord{}
	err := row.Scan(
		&j.ID, &j.DedupKey, &j.TargetID, &j.CompanyName, &j.Title, &j.URL,
		&j.Location, &j.PostedDate, &j.RoleKeyword, &j.Status,
		&j.Notes, &j.ReferralContact, &j.FoundAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *Store) ListJobKeys(ctx context.Context, targetID string) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT dedup_key FROM jobs WHERE target_id = $1`, targetID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list job keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("postgres: scan job key: %w", err)
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

// CreateJob inserts a job record. The unique index on dedup_key makes the
// check-and-insert a single atomic operation; a conflicting key inserts
// nothing and reports store.ErrDuplicateJob.
func (s *Store) CreateJob(ctx context.Context, job *models.JobRecord) error {
	now := time.Now().UTC()
	job.FoundAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = models.StatusNew
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO jobs (id, dedup_key, target_id, company_name, title, url, location, posted_date, role_keyword, status, notes, referral_contact, found_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (dedup_key) DO NOTHING`,
		job.ID, job.DedupKey, job.TargetID, job.CompanyName, job.Title, job.URL,
		job.Location, job.PostedDate, job.RoleKeyword, job.Status,
		job.Notes, job.ReferralContact, job.FoundAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrDuplicateJob
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.JobRecord, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []interface{}{}

	if filter.Company != "" {
		args = append(args, filter.Company)
		query += fmt.Sprintf(" AND company_name = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		query += fmt.Sprintf(" AND found_at >= $%d", len(args))
	}

	query += " ORDER BY found_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobRecord
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.JobRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get job: %w", err)
	}
	return j, nil
}

func (s *Store) UpdateJobStatus(ctx context.Context, id, status, notes, referralContact string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs
		SET status = $1,
		    notes = CASE WHEN $2 <> '' THEN $2 ELSE notes END,
		    referral_contact = CASE WHEN $3 <> '' THEN $3 ELSE referral_contact END,
		    updated_at = $4
		WHERE id = $5`,
		status, notes, referralContact, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("postgres: update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (*models.StatsResponse, error) {
	stats := &models.StatsResponse{
		JobsByCompany: make(map[string]int),
		JobsByStatus:  make(map[string]int),
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE found_at >= $1)
		FROM jobs`, startOfDay,
	).Scan(&stats.TotalJobs, &stats.NewToday)
	if err != nil {
		return nil, fmt.Errorf("postgres: stats totals: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT company_name, status, count(*) FROM jobs GROUP BY company_name, status`)
	if err != nil {
		return nil, fmt.Errorf("postgres: stats breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var company, status string
		var count int
		if err := rows.Scan(&company, &status, &count); err != nil {
			return nil, fmt.Errorf("postgres: scan stats: %w", err)
		}
		stats.JobsByCompany[company] += count
		stats.JobsByStatus[status] += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var activeTargets int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM targets WHERE active`).Scan(&activeTargets); err != nil {
		return nil, fmt.Errorf("postgres: stats targets: %w", err)
	}
	stats.ActiveTargets = activeTargets

	return stats, nil
}
