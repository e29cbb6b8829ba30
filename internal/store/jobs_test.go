package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, Migrate(st.Pool))
	return st
}

func row(source, externalID, title string) domain.JobRecord {
	now := time.Now().UTC()
	return domain.JobRecord{
		Source:      source,
		ExternalID:  externalID,
		Title:       title,
		Company:     "ACME",
		Location:    "Paris",
		ExternalURL: "https://example.com/" + externalID,
		CreatedAt:   now,
		FetchedAt:   now,
	}
}

func TestUpsertJobs_MintsIDsAndCounts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	n, err := st.UpsertJobs(ctx, []domain.JobRecord{row("a", "1", "Dev"), row("a", "2", "Ops")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	jobs, err := st.SelectJobs(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	for _, j := range jobs {
		assert.NotEmpty(t, j.ID)
	}
}

func TestUpsertJobs_ConflictKeepsIDAndCreatedAt(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := row("a", "1", "Dev")
	_, err := st.UpsertJobs(ctx, []domain.JobRecord{first})
	require.NoError(t, err)

	before, err := st.SelectJobs(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, before, 1)

	updated := row("a", "1", "Senior Dev")
	updated.CreatedAt = time.Now().UTC().Add(time.Hour)
	n, err := st.UpsertJobs(ctx, []domain.JobRecord{updated})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := st.SelectJobs(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, "Senior Dev", after[0].Title)
	assert.True(t, before[0].CreatedAt.Equal(after[0].CreatedAt))
}

func TestUpsertJobs_ChunksLargeBatches(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rows := make([]domain.JobRecord, upsertChunkSize+50)
	for i := range rows {
		rows[i] = row("a", fmt.Sprintf("job-%d", i), "Dev")
	}
	n, err := st.UpsertJobs(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, len(rows), n)

	count, err := st.CountJobs(ctx, Filters{})
	require.NoError(t, err)
	assert.Equal(t, len(rows), count)
}

func TestSelectJobs_Filters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	dev := row("a", "1", "Go Developer")
	dev.Category = "tech"
	dev.Remote = true
	dev.SalaryMin = 50000
	dev.SalaryMax = 70000
	dev.Tags = []string{"go", "sql"}

	sales := row("b", "2", "Account Exec")
	sales.Category = "sales"
	sales.Location = "Lyon"
	sales.SalaryMin = 30000
	sales.SalaryMax = 40000
	sales.Tags = []string{"crm"}

	_, err := st.UpsertJobs(ctx, []domain.JobRecord{dev, sales})
	require.NoError(t, err)

	cases := []struct {
		name string
		f    Filters
		want []string
	}{
		{"category", Filters{Category: "tech"}, []string{"1"}},
		{"provider", Filters{Provider: "b"}, []string{"2"}},
		{"location substring", Filters{Location: "yon"}, []string{"2"}},
		{"remote only", Filters{RemoteOnly: true}, []string{"1"}},
		{"min salary", Filters{MinSalary: 60000}, []string{"1"}},
		{"max salary", Filters{MaxSalary: 35000}, []string{"2"}},
		{"tag exact", Filters{Tags: []string{"go"}}, []string{"1"}},
		{"free text", Filters{Query: "developer"}, []string{"1"}},
		{"no match", Filters{Category: "nope"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := st.SelectJobs(ctx, tc.f)
			require.NoError(t, err)
			var ids []string
			for _, j := range got {
				ids = append(ids, j.ExternalID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestSelectJobs_TagFilterIsCaseSensitive(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	j := row("a", "1", "Dev")
	j.Tags = []string{"Go"}
	_, err := st.UpsertJobs(ctx, []domain.JobRecord{j})
	require.NoError(t, err)

	got, err := st.SelectJobs(ctx, Filters{Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = st.SelectJobs(ctx, Filters{Tags: []string{"Go"}})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSelectJobs_OrderAndPagination(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		r := row("a", fmt.Sprintf("%d", i), "Dev")
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := st.UpsertJobs(ctx, []domain.JobRecord{r})
		require.NoError(t, err)
	}

	got, err := st.SelectJobs(ctx, Filters{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	assert.Equal(t, "2", got[0].ExternalID)
	assert.Equal(t, "1", got[1].ExternalID)

	got, err = st.SelectJobs(ctx, Filters{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0", got[0].ExternalID)
}

func TestCountBySource(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.UpsertJobs(ctx, []domain.JobRecord{
		row("a", "1", "Dev"), row("a", "2", "Ops"), row("b", "1", "Dev"),
	})
	require.NoError(t, err)

	counts, err := st.CountBySource(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, counts)
}

func TestScanJob_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	in := row("a", "1", "Dev")
	in.Remote = true
	in.Tags = []string{"go", "sql"}
	in.SalaryMin = 45000
	in.SalaryMax = 60000
	_, err := st.UpsertJobs(ctx, []domain.JobRecord{in})
	require.NoError(t, err)

	got, err := st.SelectJobs(ctx, Filters{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Remote)
	assert.Equal(t, []string{"go", "sql"}, got[0].Tags)
	assert.Equal(t, 45000.0, got[0].SalaryMin)
	assert.Equal(t, 60000.0, got[0].SalaryMax)
	assert.Equal(t, "https://example.com/1", got[0].ExternalURL)
}
