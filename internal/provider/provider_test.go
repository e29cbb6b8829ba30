package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

func mapSimple(item map[string]any) *domain.ProviderJob {
	id := StringFrom(item["id"])
	title := StringFrom(item["title"])
	if id == "" || title == "" {
		return nil
	}
	return &domain.ProviderJob{ExternalID: id, Title: title}
}

func TestFetchJobs_UnconfiguredNoNetworkCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	p := New(Definition{ID: "stub", MapItem: mapSimple}, srv.Client(), nil)

	require.False(t, p.IsConfigured(Settings{}))
	jobs, err := p.FetchJobs(context.Background(), FetchContext{Limit: 10}, Settings{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestFetchJobs_SettingsEndpointWinsOverDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]any{map[string]any{"id": "1", "title": "Dev"}})
	}))
	defer srv.Close()

	p := New(Definition{
		ID:       "stub",
		Endpoint: "http://127.0.0.1:1/unreachable",
		MapItem:  mapSimple,
	}, srv.Client(), nil)

	jobs, err := p.FetchJobs(context.Background(), FetchContext{Limit: 10}, Settings{Endpoint: srv.URL})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Dev", jobs[0].Title)
}

func TestFetchJobs_HeaderPrecedence(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := New(Definition{
		ID:      "stub",
		Headers: map[string]string{"X-Api-Version": "1", "Authorization": "Basic def"},
		MapItem: mapSimple,
	}, srv.Client(), nil)

	_, err := p.FetchJobs(context.Background(), FetchContext{}, Settings{
		Endpoint:  srv.URL,
		AuthToken: "tok123",
		Headers:   map[string]string{"X-Api-Version": "2"},
	})
	require.NoError(t, err)

	// bearer token overrides definition auth; settings headers override both
	assert.Equal(t, "Bearer tok123", got.Get("Authorization"))
	assert.Equal(t, "2", got.Get("X-Api-Version"))
	assert.NotEmpty(t, got.Get("User-Agent"))
}

func TestFetchJobs_QueryMergeContextWins(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := New(Definition{
		ID:    "stub",
		Query: map[string]string{"lang": "fr", "page": "static"},
		BuildQuery: func(fc FetchContext, s Settings) map[string]string {
			return map[string]string{"page": "3", "limit": "50"}
		},
		MapItem: mapSimple,
	}, srv.Client(), nil)

	_, err := p.FetchJobs(context.Background(), FetchContext{Limit: 50, Page: 3}, Settings{Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "lang=fr")
	assert.Contains(t, gotQuery, "page=3")
	assert.Contains(t, gotQuery, "limit=50")
	assert.NotContains(t, gotQuery, "static")
}

func TestFetchJobs_Non2xxIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	p := New(Definition{ID: "stub", MapItem: mapSimple}, srv.Client(), nil)

	_, err := p.FetchJobs(context.Background(), FetchContext{}, Settings{Endpoint: srv.URL})
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusTooManyRequests, fe.Status)
	assert.Equal(t, "stub", fe.Provider)
	assert.LessOrEqual(t, len(fe.Body), maxErrBody)
}

func TestFetchJobs_CancellationIsContextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p := New(Definition{ID: "stub", MapItem: mapSimple}, srv.Client(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.FetchJobs(ctx, FetchContext{}, Settings{Endpoint: srv.URL})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestFetchJobs_ItemsPathTolerant(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		payload string
		want    int
	}{
		{"root array", "", `[{"id":"1","title":"a"},{"id":"2","title":"b"}]`, 2},
		{"nested path", "data.results", `{"data":{"results":[{"id":"1","title":"a"}]}}`, 1},
		{"missing path", "results", `{"other":[]}`, 0},
		{"non-array at path", "results", `{"results":{"id":"1"}}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer srv.Close()

			p := New(Definition{ID: "stub", ItemsPath: tc.path, MapItem: mapSimple}, srv.Client(), nil)
			jobs, err := p.FetchJobs(context.Background(), FetchContext{}, Settings{Endpoint: srv.URL})
			require.NoError(t, err)
			assert.Len(t, jobs, tc.want)
		})
	}
}

func TestFetchJobs_NilMapItemDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// first item lacks a title and must be filtered, not surfaced
		_, _ = w.Write([]byte(`[{"id":"1"},{"id":"2","title":"Dev"},"not-an-object"]`))
	}))
	defer srv.Close()

	p := New(Definition{ID: "stub", MapItem: mapSimple}, srv.Client(), nil)
	jobs, err := p.FetchJobs(context.Background(), FetchContext{}, Settings{Endpoint: srv.URL})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "2", jobs[0].ExternalID)
}

func TestFetchJobs_PostBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"resultats":[]}`))
	}))
	defer srv.Close()

	p := New(Definition{
		ID:     "stub",
		Method: http.MethodPost,
		BuildBody: func(fc FetchContext, s Settings) any {
			return map[string]any{"startIndex": fc.Page, "range": fc.Limit}
		},
		ItemsPath: "resultats",
		MapItem:   mapSimple,
	}, srv.Client(), nil)

	_, err := p.FetchJobs(context.Background(), FetchContext{Limit: 20, Page: 2}, Settings{Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(2), gotBody["startIndex"])
	assert.Equal(t, float64(20), gotBody["range"])
}

func TestRegistry_KnownProvidersOrdered(t *testing.T) {
	r := NewRegistry(nil, nil)
	ids := r.IDs()
	require.NotEmpty(t, ids)
	assert.Equal(t, len(ids), len(r.All()))

	for _, id := range ids {
		p, ok := r.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, id, p.ID())
		assert.NotEmpty(t, p.Label(), id)
	}

	_, ok := r.Get("nope")
	assert.False(t, ok)
}

func TestDefinitions_MapItemFiltersRequiredFields(t *testing.T) {
	for _, def := range Definitions() {
		require.NotNil(t, def.MapItem, def.ID)
		assert.Nil(t, def.MapItem(map[string]any{}), "empty item must map to nil for %s", def.ID)
	}
}
