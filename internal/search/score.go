package search

import (
	"sort"
	"strings"
	"time"

	"jobfeed-engine/internal/domain"
)

// Token hit weights per field.
const (
	weightTitle       = 6.0
	weightCompany     = 4.0
	weightDescription = 2.5
	weightLocation    = 3.0
	weightTag         = 5.0

	recencyMax     = 3.0
	recencyHorizon = 21 * 24 * time.Hour

	remoteBoost = 1.0
)

// ScoreByRelevance ranks jobs against query tokens plus recency, salary and
// remote boosts. With no tokens the input order is returned unchanged, and
// exact score ties always preserve input order so pagination stays
// reproducible.
func ScoreByRelevance(jobs []domain.JobRecord, tokens []string) []domain.JobRecord {
	if len(tokens) == 0 {
		return jobs
	}

	now := time.Now()
	scores := make([]float64, len(jobs))
	for i, j := range jobs {
		scores[i] = score(j, tokens, now)
	}

	out := make([]domain.JobRecord, len(jobs))
	copy(out, jobs)
	idx := make([]int, len(jobs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	for pos, i := range idx {
		out[pos] = jobs[i]
	}
	return out
}

func score(j domain.JobRecord, tokens []string, now time.Time) float64 {
	title := Normalize(j.Title)
	company := Normalize(j.Company)
	description := Normalize(j.Description)
	location := Normalize(j.Location)
	tags := make([]string, len(j.Tags))
	for i, t := range j.Tags {
		tags[i] = Normalize(t)
	}

	total := 0.0
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			total += weightTitle
		}
		if strings.Contains(company, tok) {
			total += weightCompany
		}
		if strings.Contains(description, tok) {
			total += weightDescription
		}
		if strings.Contains(location, tok) {
			total += weightLocation
		}
		for _, tag := range tags {
			if strings.Contains(tag, tok) {
				total += weightTag
				break
			}
		}
	}

	total += recencyScore(j.FetchedAt, now)
	total += salaryScore(j.SalaryMin, j.SalaryMax)
	if j.Remote {
		total += remoteBoost
	}
	return total
}

// recencyScore interpolates from recencyMax for fresh (or future-dated)
// postings down to 0 at the horizon.
func recencyScore(postedAt time.Time, now time.Time) float64 {
	if postedAt.IsZero() {
		return 0
	}
	age := now.Sub(postedAt)
	if age <= 0 {
		return recencyMax
	}
	if age >= recencyHorizon {
		return 0
	}
	return recencyMax * (1 - float64(age)/float64(recencyHorizon))
}

// salaryScore buckets on the midpoint of the advertised range.
func salaryScore(min, max float64) float64 {
	mid := (min + max) / 2
	switch {
	case mid >= 100_000:
		return 2.5
	case mid >= 80_000:
		return 2
	case mid >= 60_000:
		return 1.5
	case mid >= 45_000:
		return 1
	case mid > 0:
		return 0.5
	default:
		return 0
	}
}
