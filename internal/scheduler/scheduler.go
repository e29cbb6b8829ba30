package scheduler

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/provider"
	"jobfeed-engine/internal/scrape"
	"jobfeed-engine/internal/store"
)

// DefaultRefreshInterval is how stale a provider's last success may be before
// it is due again.
const DefaultRefreshInterval = 72 * time.Hour

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrNotConfigured   = errors.New("provider not configured")
)

// Outcome statuses beyond the run telemetry ones.
const (
	StatusSkipped  = "skipped"
	StatusDisabled = "disabled"
)

// Outcome is one provider's entry in a pass summary.
type Outcome struct {
	Status    string `json:"status"` // success | failed | skipped | disabled
	Fetched   int    `json:"fetched"`
	Persisted int    `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// Summary maps every known provider to its outcome for one pass.
type Summary map[string]Outcome

// Scheduler decides which providers are due and drives their runs strictly
// sequentially. Sequential execution bounds outbound concurrency and keeps
// the telemetry table free of write contention.
type Scheduler struct {
	Store           *store.Store
	Registry        *provider.Registry
	RefreshInterval time.Duration
	Log             *zap.SugaredLogger
	Hub             *events.Hub

	// TokenFor resolves a provider's auth token (keyring); optional.
	TokenFor func(providerID string) string
	// Now is injectable for the due decision. Defaults to time.Now.
	Now func() time.Time
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) refreshInterval() time.Duration {
	if s.RefreshInterval > 0 {
		return s.RefreshInterval
	}
	return DefaultRefreshInterval
}

// settingsMap loads stored settings for every registered provider and
// overlays keyring tokens.
func (s *Scheduler) settingsMap(ctx context.Context) (map[string]provider.Settings, error) {
	m, err := s.Store.SettingsMap(ctx, s.Registry.IDs())
	if err != nil {
		return nil, err
	}
	if s.TokenFor != nil {
		for id, set := range m {
			if set.AuthToken == "" {
				set.AuthToken = s.TokenFor(id)
				m[id] = set
			}
		}
	}
	return m, nil
}

// DetermineDueProviders returns the ids of configured providers that need a
// refresh: zero stored jobs, no recorded success, or a success at least one
// refresh interval ago (boundary inclusive).
func (s *Scheduler) DetermineDueProviders(ctx context.Context) ([]string, error) {
	settings, err := s.settingsMap(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.Store.CountBySource(ctx)
	if err != nil {
		return nil, err
	}
	runs, err := s.Store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	lastSuccess := make(map[string]*time.Time, len(runs))
	for _, r := range runs {
		lastSuccess[r.Provider] = r.LastSuccessAt
	}

	now := s.now()
	var due []string
	for _, p := range s.Registry.All() {
		if !p.IsConfigured(settings[p.ID()]) {
			continue
		}
		// zero stored jobs always retriggers, regardless of recency; an
		// empty result set usually means a prior silent failure
		if counts[p.ID()] == 0 {
			due = append(due, p.ID())
			continue
		}
		ls := lastSuccess[p.ID()]
		if ls == nil || now.Sub(*ls) >= s.refreshInterval() {
			due = append(due, p.ID())
		}
	}
	return due, nil
}

// runProviderOnce is the single run primitive behind every entry point. It
// marks the telemetry row running before the attempt so interrupted runs are
// visibly stuck rather than silently stale, then records the outcome.
func (s *Scheduler) runProviderOnce(ctx context.Context, p *provider.Provider, settings provider.Settings) Outcome {
	now := s.now().UTC()
	if err := s.Store.UpsertRun(ctx, domain.ProviderRun{
		Provider:  p.ID(),
		LastRunAt: &now,
		Status:    domain.RunRunning,
	}); err != nil {
		return s.finishRun(ctx, p.ID(), scrape.Result{}, err)
	}

	res, err := scrape.Scrape(ctx, p, settings, s.Store)
	return s.finishRun(ctx, p.ID(), res, err)
}

func (s *Scheduler) finishRun(ctx context.Context, providerID string, res scrape.Result, runErr error) Outcome {
	out := Outcome{Fetched: res.Fetched, Persisted: res.Persisted}
	if runErr != nil {
		out.Status = domain.RunFailed
		out.Error = runErr.Error()
		if err := s.Store.UpsertRun(ctx, domain.ProviderRun{
			Provider: providerID,
			Status:   domain.RunFailed,
			Error:    runErr.Error(),
		}); err != nil {
			s.Log.Errorw("record failed run", "provider", providerID, "err", err)
		}
		s.Log.Warnw("provider run failed", "provider", providerID, "err", runErr)
	} else {
		now := s.now().UTC()
		out.Status = domain.RunSuccess
		if err := s.Store.UpsertRun(ctx, domain.ProviderRun{
			Provider:      providerID,
			LastSuccessAt: &now,
			Status:        domain.RunSuccess,
		}); err != nil {
			s.Log.Errorw("record successful run", "provider", providerID, "err", err)
		}
		s.Log.Infow("provider run done",
			"provider", providerID, "fetched", res.Fetched, "persisted", res.Persisted)
	}

	if s.Hub != nil {
		s.Hub.Publish(events.MakeEvent("", "provider_run", 1, map[string]any{
			"provider":  providerID,
			"status":    out.Status,
			"fetched":   out.Fetched,
			"persisted": out.Persisted,
			"error":     out.Error,
		}))
	}
	return out
}

// SyncDueProviders runs only the due providers and reports every known
// provider: real outcomes for the ones that ran, "skipped" for not-due,
// "disabled" for unconfigured.
func (s *Scheduler) SyncDueProviders(ctx context.Context) (Summary, error) {
	settings, err := s.settingsMap(ctx)
	if err != nil {
		return nil, err
	}
	due, err := s.DetermineDueProviders(ctx)
	if err != nil {
		return nil, err
	}
	dueSet := make(map[string]bool, len(due))
	for _, id := range due {
		dueSet[id] = true
	}

	summary := make(Summary, len(s.Registry.IDs()))
	for _, p := range s.Registry.All() {
		switch {
		case !p.IsConfigured(settings[p.ID()]):
			summary[p.ID()] = Outcome{Status: StatusDisabled}
		case !dueSet[p.ID()]:
			summary[p.ID()] = Outcome{Status: StatusSkipped}
		default:
			summary[p.ID()] = s.runProviderOnce(ctx, p, settings[p.ID()])
		}
	}
	return summary, nil
}

// RunProvider forces one named provider to run. Unlike every other path,
// unknown or unconfigured here is a hard error: the operator asked for it
// explicitly.
func (s *Scheduler) RunProvider(ctx context.Context, id string) (scrape.Result, error) {
	p, ok := s.Registry.Get(id)
	if !ok {
		return scrape.Result{}, errors.Wrapf(ErrUnknownProvider, "%q", id)
	}
	settings, err := s.settingsMap(ctx)
	if err != nil {
		return scrape.Result{}, err
	}
	if !p.IsConfigured(settings[id]) {
		return scrape.Result{}, errors.Wrapf(ErrNotConfigured, "%q", id)
	}

	out := s.runProviderOnce(ctx, p, settings[id])
	res := scrape.Result{ProviderID: id, Fetched: out.Fetched, Persisted: out.Persisted}
	if out.Status == domain.RunFailed {
		return res, errors.Newf("provider %s: %s", id, out.Error)
	}
	return res, nil
}

// RunAllProviders forces every provider to run sequentially regardless of
// due-ness; unconfigured providers are recorded as disabled and skipped.
func (s *Scheduler) RunAllProviders(ctx context.Context) (Summary, error) {
	settings, err := s.settingsMap(ctx)
	if err != nil {
		return nil, err
	}

	summary := make(Summary, len(s.Registry.IDs()))
	for _, p := range s.Registry.All() {
		if !p.IsConfigured(settings[p.ID()]) {
			summary[p.ID()] = Outcome{Status: StatusDisabled}
			continue
		}
		summary[p.ID()] = s.runProviderOnce(ctx, p, settings[p.ID()])
	}
	return summary, nil
}
