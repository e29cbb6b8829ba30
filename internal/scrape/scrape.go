package scrape

import (
	"context"
	"time"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/provider"
	"jobfeed-engine/internal/store"
)

const (
	// hardJobCap bounds one run regardless of what the provider reports.
	hardJobCap = 2000

	defaultLimit    = 200
	defaultMaxPages = 5
)

// Result is one provider run's yield. Fetched counts everything the provider
// produced; Persisted counts rows the upserts touched.
type Result struct {
	ProviderID string `json:"provider"`
	Fetched    int    `json:"fetched"`
	Persisted  int    `json:"persisted"`
}

// Scrape drives one provider across pages and upserts the converted rows.
// An unconfigured provider yields a zero Result with no I/O at all.
func Scrape(ctx context.Context, p *provider.Provider, settings provider.Settings, st *store.Store) (Result, error) {
	res := Result{ProviderID: p.ID()}
	if !p.IsConfigured(settings) {
		return res, nil
	}

	limit := p.MaxBatchSize()
	if limit <= 0 {
		limit = defaultLimit
	}

	var jobs []domain.ProviderJob

	pg := p.Pagination()
	if pg == nil {
		batch, err := p.FetchJobs(ctx, provider.FetchContext{Limit: limit}, settings)
		if err != nil {
			return res, err
		}
		jobs = batch
		res.Fetched = len(batch)
	} else {
		start := pg.StartPage
		if start == 0 && !pg.ZeroBased {
			start = 1
		}
		maxPages := pg.MaxPages
		if maxPages <= 0 {
			maxPages = defaultMaxPages
		}

		// pages are fetched strictly sequentially; the stopping decision
		// depends on the previous batch
		for i := 0; i < maxPages; i++ {
			batch, err := p.FetchJobs(ctx, provider.FetchContext{Limit: limit, Page: start + i}, settings)
			if err != nil {
				return res, err
			}
			res.Fetched += len(batch)
			jobs = append(jobs, batch...)

			// empty page, short page, or cap reached all signal the end
			if len(batch) == 0 || len(batch) < limit || len(jobs) >= hardJobCap {
				break
			}
		}
	}

	now := time.Now().UTC()
	rows := make([]domain.JobRecord, 0, len(jobs))
	for _, j := range jobs {
		if row, ok := toRow(p, j, now); ok {
			rows = append(rows, row)
		}
	}

	persisted, err := st.UpsertJobs(ctx, rows)
	res.Persisted = persisted
	if err != nil {
		return res, err
	}
	return res, nil
}
