package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"jobfeed-engine/internal/domain"
)

// ListRuns returns all provider run telemetry rows.
func (s *Store) ListRuns(ctx context.Context) ([]domain.ProviderRun, error) {
	rows, err := s.Pool.QueryContext(ctx,
		`SELECT provider, last_run_at, last_success_at, status, error FROM provider_runs`)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var out []domain.ProviderRun
	for rows.Next() {
		var r domain.ProviderRun
		var lastRun, lastSuccess sql.NullString
		if err := rows.Scan(&r.Provider, &lastRun, &lastSuccess, &r.Status, &r.Error); err != nil {
			return nil, err
		}
		r.LastRunAt = parseNullTime(lastRun)
		r.LastSuccessAt = parseNullTime(lastSuccess)
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertRun overwrites the telemetry row for one provider. Nil times leave
// the stored values untouched.
func (s *Store) UpsertRun(ctx context.Context, r domain.ProviderRun) error {
	_, err := s.Pool.ExecContext(ctx, `
INSERT INTO provider_runs (provider, last_run_at, last_success_at, status, error)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(provider) DO UPDATE SET
  last_run_at = COALESCE(excluded.last_run_at, provider_runs.last_run_at),
  last_success_at = COALESCE(excluded.last_success_at, provider_runs.last_success_at),
  status = excluded.status,
  error = excluded.error;`,
		r.Provider, formatNullTime(r.LastRunAt), formatNullTime(r.LastSuccessAt),
		r.Status, r.Error,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert run %s", r.Provider)
	}
	return nil
}

func parseNullTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
