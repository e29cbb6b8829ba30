package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"jobfeed-engine/internal/domain"
)

// upsertChunkSize bounds one INSERT statement; runs persist in batches.
const upsertChunkSize = 200

// Filters is the narrow query surface the search layer uses. Tag filtering is
// an exact, case-sensitive match against stored tag strings.
type Filters struct {
	Category   string
	Provider   string
	Query      string
	Location   string
	RemoteOnly bool
	MinSalary  float64
	MaxSalary  float64
	Tags       []string
	Limit      int
	Offset     int
}

// UpsertJobs writes rows in chunks keyed on (source, external_id) and returns
// how many rows the upserts touched. IDs are minted here; conflicts keep the
// existing id and created_at.
func (s *Store) UpsertJobs(ctx context.Context, rows []domain.JobRecord) (int, error) {
	persisted := 0
	for start := 0; start < len(rows); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := s.upsertChunk(ctx, rows[start:end])
		if err != nil {
			return persisted, err
		}
		persisted += n
	}
	return persisted, nil
}

func (s *Store) upsertChunk(ctx context.Context, rows []domain.JobRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`
INSERT INTO jobs (id, source, external_id, title, company, location, category,
                  description, remote, salary_min, salary_max, tags,
                  external_url, created_at, fetched_at)
VALUES `)

	args := make([]any, 0, len(rows)*15)
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)")

		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		tagsJSON, _ := json.Marshal(r.Tags)
		if r.Tags == nil {
			tagsJSON = []byte("[]")
		}
		remote := 0
		if r.Remote {
			remote = 1
		}
		args = append(args,
			id, r.Source, r.ExternalID, r.Title, r.Company, r.Location,
			r.Category, r.Description, remote, r.SalaryMin, r.SalaryMax,
			string(tagsJSON), r.ExternalURL,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.FetchedAt.UTC().Format(time.RFC3339),
		)
	}

	sb.WriteString(`
ON CONFLICT(source, external_id) DO UPDATE SET
  title = excluded.title,
  company = excluded.company,
  location = excluded.location,
  category = excluded.category,
  description = excluded.description,
  remote = excluded.remote,
  salary_min = excluded.salary_min,
  salary_max = excluded.salary_max,
  tags = excluded.tags,
  external_url = excluded.external_url,
  fetched_at = excluded.fetched_at
RETURNING id;`)

	queried, err := s.Pool.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, errors.Wrap(err, "upsert jobs")
	}
	defer queried.Close()

	n := 0
	for queried.Next() {
		var id string
		if err := queried.Scan(&id); err != nil {
			return n, err
		}
		n++
	}
	return n, queried.Err()
}

const jobColumns = `id, source, external_id, title, company, location, category,
description, remote, salary_min, salary_max, tags, external_url, created_at, fetched_at`

// SelectJobs returns filtered jobs ordered by created_at desc.
func (s *Store) SelectJobs(ctx context.Context, f Filters) ([]domain.JobRecord, error) {
	where, args := buildWhere(f)

	query := fmt.Sprintf(`SELECT %s FROM jobs %s ORDER BY created_at DESC`, jobColumns, where)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
		if f.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", f.Offset)
		}
	}

	rows, err := s.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select jobs")
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		r, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountJobs counts rows matching the filters, ignoring Limit/Offset.
func (s *Store) CountJobs(ctx context.Context, f Filters) (int, error) {
	where, args := buildWhere(f)
	var n int
	err := s.Pool.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs `+where, args...).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count jobs")
	}
	return n, nil
}

// CountBySource returns per-provider job counts, used by the due decision.
func (s *Store) CountBySource(ctx context.Context) (map[string]int, error) {
	rows, err := s.Pool.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM jobs WHERE source != '' GROUP BY source`)
	if err != nil {
		return nil, errors.Wrap(err, "count by source")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, err
		}
		out[src] = n
	}
	return out, rows.Err()
}

func buildWhere(f Filters) (string, []any) {
	var conds []string
	var args []any

	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Provider != "" {
		conds = append(conds, "source = ?")
		args = append(args, f.Provider)
	}
	if f.Location != "" {
		conds = append(conds, "location LIKE ?")
		args = append(args, "%"+f.Location+"%")
	}
	if f.RemoteOnly {
		conds = append(conds, "remote = 1")
	}
	if f.MinSalary > 0 {
		conds = append(conds, "salary_max >= ?")
		args = append(args, f.MinSalary)
	}
	if f.MaxSalary > 0 {
		conds = append(conds, "salary_min <= ?")
		args = append(args, f.MaxSalary)
	}
	for _, tag := range f.Tags {
		// tags column is a JSON array; match the exact encoded string
		b, _ := json.Marshal(tag)
		conds = append(conds, "tags LIKE ?")
		args = append(args, "%"+string(b)+"%")
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		conds = append(conds,
			"(title LIKE ? OR company LIKE ? OR location LIKE ? OR description LIKE ?)")
		args = append(args, like, like, like, like)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanJob(rows *sql.Rows) (domain.JobRecord, error) {
	var r domain.JobRecord
	var remote int
	var tagsJSON, createdAt, fetchedAt string
	if err := rows.Scan(
		&r.ID, &r.Source, &r.ExternalID, &r.Title, &r.Company, &r.Location,
		&r.Category, &r.Description, &remote, &r.SalaryMin, &r.SalaryMax,
		&tagsJSON, &r.ExternalURL, &createdAt, &fetchedAt,
	); err != nil {
		return r, err
	}
	r.Remote = remote == 1
	_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
	return r, nil
}
