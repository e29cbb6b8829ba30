package scrape

import (
	"strings"
	"time"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/fetchutil"
	"jobfeed-engine/internal/provider"
)

const (
	maxTags         = 8
	defaultLocation = "France"
)

// toRow converts one ProviderJob into a storage row. Items missing the
// required fields are dropped, not errors.
func toRow(p *provider.Provider, j domain.ProviderJob, now time.Time) (domain.JobRecord, bool) {
	externalID := strings.TrimSpace(j.ExternalID)
	title := strings.TrimSpace(j.Title)
	if externalID == "" || title == "" {
		return domain.JobRecord{}, false
	}

	salaryMin := 0.0
	if j.SalaryMin != nil && *j.SalaryMin > 0 {
		salaryMin = *j.SalaryMin
	}
	salaryMax := 0.0
	if j.SalaryMax != nil {
		salaryMax = *j.SalaryMax
	}
	if salaryMax < salaryMin {
		salaryMax = salaryMin
	}

	location := strings.TrimSpace(j.Location)
	if location == "" {
		location = defaultLocation
	}
	category := strings.TrimSpace(j.Category)
	if category == "" {
		category = p.DefaultCategory()
	}
	company := strings.TrimSpace(j.Company)
	if company == "" {
		company = p.Label()
	}

	fetchedAt := now
	if j.PublishedAt != nil {
		fetchedAt = j.PublishedAt.UTC()
	}

	remote := j.Remote != nil && *j.Remote

	return domain.JobRecord{
		Source:      p.ID(),
		ExternalID:  externalID,
		Title:       title,
		Company:     company,
		Location:    location,
		Category:    category,
		Description: fetchutil.StripHTML(j.Description),
		Remote:      remote,
		SalaryMin:   salaryMin,
		SalaryMax:   salaryMax,
		Tags:        sanitizeTags(j.Tags),
		ExternalURL: ResolveExternalURL(j, p.Label()),
		CreatedAt:   now,
		FetchedAt:   fetchedAt,
	}, true
}

// sanitizeTags trims, dedupes (case-sensitive) and caps the tag list.
func sanitizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
