package search

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/store"
)

// Result is what the API layer serves for one search call.
type Result struct {
	Jobs       []domain.JobRecord `json:"jobs"`
	Summary    Summary            `json:"summary"`
	TotalCount int                `json:"totalCount"`
}

// Service reads jobs from the store and ranks them. Read-only: retention and
// moderation are someone else's problem.
type Service struct {
	Store *store.Store
}

// SearchJobs runs the filtered select and the total count concurrently, then
// ranks the page against the query tokens and summarizes it. A caller-side
// cancellation is not an error: it returns an empty result and mutates
// nothing.
func (s *Service) SearchJobs(ctx context.Context, f store.Filters) (Result, error) {
	var (
		jobs  []domain.JobRecord
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.Store.SelectJobs(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.Store.CountJobs(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			return Result{Summary: emptySummary()}, nil
		}
		return Result{}, err
	}

	jobs = ScoreByRelevance(jobs, BuildQueryTokens(f.Query))
	return Result{
		Jobs:       jobs,
		Summary:    BuildSummary(jobs),
		TotalCount: total,
	}, nil
}
