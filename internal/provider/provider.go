package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/fetchutil"
)

const fetchTimeout = 12 * time.Second

// Settings are the runtime-supplied overrides for one provider. They win over
// the definition's defaults; absence of both means the provider is not
// configured and fetches are a no-op.
type Settings struct {
	Endpoint  string            `json:"endpoint,omitempty"`
	AuthToken string            `json:"authToken,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// FetchContext carries the per-call pagination window.
type FetchContext struct {
	Limit int
	Page  int
}

// Pagination describes page-mode iteration for providers that support it.
type Pagination struct {
	StartPage int
	MaxPages  int
	ZeroBased bool
}

// Definition is the declarative descriptor for one upstream source: how to
// build a request, where the item list lives in the response, and how one raw
// item maps into a ProviderJob. Fetching is the only side effect; persistence
// belongs to the scraper.
type Definition struct {
	ID              string
	Label           string
	DefaultCategory string
	Language        string
	MaxBatchSize    int
	Pagination      *Pagination

	Endpoint   string // default; Settings.Endpoint wins
	Method     string // GET when empty
	Query      map[string]string
	BuildQuery func(fc FetchContext, s Settings) map[string]string
	Headers    map[string]string
	BuildBody  func(fc FetchContext, s Settings) any

	ItemsPath string // dotted path to the item array; "" = response root
	MapItem   func(item map[string]any) *domain.ProviderJob
}

// FetchError is a non-2xx upstream response, carrying status and a truncated
// body for telemetry.
type FetchError struct {
	Provider string
	Status   int
	Body     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("provider %s: status %d: %s", e.Provider, e.Status, e.Body)
}

const maxErrBody = 512

// Provider is a ready-to-fetch upstream source built from a Definition.
type Provider struct {
	def     Definition
	hc      *http.Client
	limiter *fetchutil.HostLimiter
}

func New(def Definition, hc *http.Client, limiter *fetchutil.HostLimiter) *Provider {
	if hc == nil {
		hc = &http.Client{Timeout: fetchTimeout}
	}
	return &Provider{def: def, hc: hc, limiter: limiter}
}

func (p *Provider) ID() string              { return p.def.ID }
func (p *Provider) Label() string           { return p.def.Label }
func (p *Provider) DefaultCategory() string { return p.def.DefaultCategory }
func (p *Provider) MaxBatchSize() int       { return p.def.MaxBatchSize }
func (p *Provider) Pagination() *Pagination { return p.def.Pagination }

func (p *Provider) endpoint(s Settings) string {
	if e := strings.TrimSpace(s.Endpoint); e != "" {
		return e
	}
	return strings.TrimSpace(p.def.Endpoint)
}

// IsConfigured reports whether an endpoint is resolvable from settings or the
// definition default. An unconfigured provider is a no-op producer.
func (p *Provider) IsConfigured(s Settings) bool {
	return p.endpoint(s) != ""
}

// FetchJobs issues one bounded HTTP request and maps the response into
// ProviderJobs. Unconfigured providers return an empty slice without any
// network call. Malformed items are dropped, not surfaced.
func (p *Provider) FetchJobs(ctx context.Context, fc FetchContext, s Settings) ([]domain.ProviderJob, error) {
	endpoint := p.endpoint(s)
	if endpoint == "" {
		return nil, nil
	}

	reqURL, err := p.buildURL(endpoint, fc, s)
	if err != nil {
		return nil, errors.Wrapf(err, "provider %s: endpoint", p.def.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var body io.Reader
	method := p.def.Method
	if method == "" {
		method = http.MethodGet
	}
	if p.def.BuildBody != nil {
		b, err := json.Marshal(p.def.BuildBody(fc, s))
		if err != nil {
			return nil, errors.Wrapf(err, "provider %s: body", p.def.ID)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, errors.Wrapf(err, "provider %s: request", p.def.ID)
	}
	p.setHeaders(req, s)

	if p.limiter != nil {
		if err := p.limiter.WaitURL(ctx, reqURL); err != nil {
			return nil, err
		}
	}

	res, err := p.hc.Do(req)
	if err != nil {
		// keep context errors recognizable so callers can treat
		// cancellation differently from upstream failures
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrapf(err, "provider %s: fetch", p.def.ID)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrBody))
		return nil, &FetchError{Provider: p.def.ID, Status: res.StatusCode, Body: string(b)}
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, errors.Wrapf(err, "provider %s: decode", p.def.ID)
	}

	items := extractItems(payload, p.def.ItemsPath)

	out := make([]domain.ProviderJob, 0, len(items))
	for _, raw := range items {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if job := p.def.MapItem(m); job != nil {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (p *Provider) buildURL(endpoint string, fc FetchContext, s Settings) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}

	q := u.Query()
	for k, v := range p.def.Query {
		q.Set(k, v)
	}
	if p.def.BuildQuery != nil {
		// context-aware params win on key conflict
		for k, v := range p.def.BuildQuery(fc, s) {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// setHeaders applies definition headers, then the derived bearer token, then
// explicit settings headers. Later wins on conflict.
func (p *Provider) setHeaders(req *http.Request, s Settings) {
	if p.def.BuildBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "jobfeed-engine/1.0 (+local)")
	for k, v := range p.def.Headers {
		req.Header.Set(k, v)
	}
	if t := strings.TrimSpace(s.AuthToken); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
}

// extractItems walks the configured path through the decoded payload. A
// missing or non-array result is an empty list, not an error.
func extractItems(payload any, path string) []any {
	cur := payload
	if path != "" {
		for _, seg := range strings.Split(path, ".") {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[seg]
		}
	}
	arr, ok := cur.([]any)
	if !ok {
		return nil
	}
	return arr
}
