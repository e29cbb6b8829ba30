package httpapi

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/scheduler"
	"jobfeed-engine/internal/store"
)

type ScrapeHandler struct {
	Store     *store.Store
	Scheduler *scheduler.Scheduler
}

// Status serves GET /scrape/status: the raw run telemetry rows.
func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "status_failed", err.Error())
		return
	}
	if runs == nil {
		runs = []domain.ProviderRun{}
	}
	writeJSON(w, runs)
}

// Run serves POST /scrape/run. ?provider=<id> forces one provider (hard
// error when unknown or unconfigured), ?all=1 forces every configured
// provider, default runs due providers only.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if id := strings.TrimSpace(q.Get("provider")); id != "" {
		res, err := h.Scheduler.RunProvider(r.Context(), id)
		if err != nil {
			status := http.StatusInternalServerError
			code := "run_failed"
			switch {
			case errors.Is(err, scheduler.ErrUnknownProvider):
				status, code = http.StatusNotFound, "unknown_provider"
			case errors.Is(err, scheduler.ErrNotConfigured):
				status, code = http.StatusConflict, "provider_not_configured"
			}
			WriteError(w, r, status, code, err.Error())
			return
		}
		writeJSON(w, res)
		return
	}

	var (
		summary scheduler.Summary
		err     error
	)
	if v := q.Get("all"); v == "1" || strings.EqualFold(v, "true") {
		summary, err = h.Scheduler.RunAllProviders(r.Context())
	} else {
		summary, err = h.Scheduler.SyncDueProviders(r.Context())
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "sync_failed", err.Error())
		return
	}
	writeJSON(w, summary)
}
