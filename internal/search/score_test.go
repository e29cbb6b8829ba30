package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobfeed-engine/internal/domain"
)

func job(id, title string) domain.JobRecord {
	return domain.JobRecord{ID: id, Title: title, FetchedAt: time.Now()}
}

func ids(jobs []domain.JobRecord) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestScoreByRelevance_NoTokensKeepsOrder(t *testing.T) {
	jobs := []domain.JobRecord{job("1", "Ops"), job("2", "Dev"), job("3", "Data")}
	got := ScoreByRelevance(jobs, nil)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestScoreByRelevance_TitleOutranksDescription(t *testing.T) {
	now := time.Now()
	jobs := []domain.JobRecord{
		{ID: "desc", Title: "Engineer", Description: "go services", FetchedAt: now},
		{ID: "title", Title: "Go Engineer", FetchedAt: now},
	}
	got := ScoreByRelevance(jobs, []string{"go"})
	assert.Equal(t, []string{"title", "desc"}, ids(got))
}

func TestScoreByRelevance_TieKeepsInputOrder(t *testing.T) {
	now := time.Now()
	jobs := make([]domain.JobRecord, 6)
	for i := range jobs {
		jobs[i] = domain.JobRecord{ID: fmt.Sprintf("%d", i), Title: "Go Dev", FetchedAt: now}
	}
	got := ScoreByRelevance(jobs, []string{"go"})
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, ids(got))
}

func TestScoreByRelevance_SalaryBandOutranks(t *testing.T) {
	now := time.Now()
	jobs := []domain.JobRecord{
		{ID: "low", Title: "Go Dev", SalaryMin: 30000, SalaryMax: 40000, FetchedAt: now},
		{ID: "high", Title: "Go Dev", SalaryMin: 90000, SalaryMax: 120000, FetchedAt: now},
	}
	got := ScoreByRelevance(jobs, []string{"go"})
	assert.Equal(t, "high", got[0].ID)
}

func TestScoreByRelevance_FreshOutranksStale(t *testing.T) {
	now := time.Now()
	old := now.Add(-30 * 24 * time.Hour)
	jobs := []domain.JobRecord{
		{ID: "stale", Title: "Go Dev", FetchedAt: old},
		{ID: "fresh", Title: "Go Dev", FetchedAt: now},
	}
	got := ScoreByRelevance(jobs, []string{"go"})
	assert.Equal(t, "fresh", got[0].ID)
}

func TestScoreByRelevance_RemoteBoostBreaksEqualMatch(t *testing.T) {
	now := time.Now()
	jobs := []domain.JobRecord{
		{ID: "office", Title: "Go Dev", FetchedAt: now},
		{ID: "remote", Title: "Go Dev", Remote: true, FetchedAt: now},
	}
	got := ScoreByRelevance(jobs, []string{"go"})
	assert.Equal(t, "remote", got[0].ID)
}

func TestScoreByRelevance_TagMatchCountedOncePerToken(t *testing.T) {
	now := time.Now()
	many := domain.JobRecord{ID: "many", Tags: []string{"go", "golang", "go-kit"}, FetchedAt: now}
	one := domain.JobRecord{ID: "one", Tags: []string{"go"}, FetchedAt: now}

	sMany := score(many, []string{"go"}, now)
	sOne := score(one, []string{"go"}, now)
	assert.Equal(t, sOne, sMany)
}

func TestScoreByRelevance_DiacriticInsensitiveMatch(t *testing.T) {
	now := time.Now()
	jobs := []domain.JobRecord{
		{ID: "other", Title: "Comptable", FetchedAt: now},
		{ID: "match", Title: "Développeur Go", FetchedAt: now},
	}
	got := ScoreByRelevance(jobs, []string{"developpeur"})
	assert.Equal(t, "match", got[0].ID)
}

func TestRecencyScore(t *testing.T) {
	now := time.Now()
	assert.Equal(t, recencyMax, recencyScore(now, now))
	assert.Equal(t, recencyMax, recencyScore(now.Add(time.Hour), now)) // future-dated
	assert.Zero(t, recencyScore(now.Add(-recencyHorizon), now))
	assert.Zero(t, recencyScore(time.Time{}, now))

	mid := recencyScore(now.Add(-recencyHorizon/2), now)
	require.InDelta(t, recencyMax/2, mid, 0.01)
}

func TestSalaryScore(t *testing.T) {
	cases := []struct {
		min, max, want float64
	}{
		{100000, 120000, 2.5},
		{80000, 90000, 2},
		{60000, 70000, 1.5},
		{45000, 50000, 1},
		{20000, 30000, 0.5},
		{0, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, salaryScore(tc.min, tc.max), "min=%v max=%v", tc.min, tc.max)
	}
}
