package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/search"
	"jobfeed-engine/internal/store"
)

func errInvalidParam(name string) error {
	return errors.Newf("invalid %s", name)
}

type JobsHandler struct {
	Search *search.Service
}

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

// SearchJobs serves GET /jobs/search. Filters come from query params; the
// ranked page plus summary and total count go back as one payload.
func (h JobsHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_filter", err.Error())
		return
	}

	res, err := h.Search.SearchJobs(r.Context(), f)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "search_failed", err.Error())
		return
	}
	if res.Jobs == nil {
		res.Jobs = []domain.JobRecord{} // keep "jobs": [] in the payload
	}
	writeJSON(w, res)
}

func filtersFromQuery(r *http.Request) (store.Filters, error) {
	q := r.URL.Query()
	f := store.Filters{
		Category: strings.TrimSpace(q.Get("category")),
		Provider: strings.TrimSpace(q.Get("provider")),
		Query:    strings.TrimSpace(q.Get("query")),
		Location: strings.TrimSpace(q.Get("location")),
		Limit:    defaultSearchLimit,
	}

	if v := q.Get("remoteOnly"); v != "" {
		f.RemoteOnly = v == "1" || strings.EqualFold(v, "true")
	}
	if v := q.Get("minSalary"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errInvalidParam("minSalary")
		}
		f.MinSalary = n
	}
	if v := q.Get("maxSalary"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errInvalidParam("maxSalary")
		}
		f.MaxSalary = n
	}
	for _, t := range q["tags"] {
		if t = strings.TrimSpace(t); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return f, errInvalidParam("limit")
		}
		if n > maxSearchLimit {
			n = maxSearchLimit
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errInvalidParam("offset")
		}
		f.Offset = n
	}
	return f, nil
}
