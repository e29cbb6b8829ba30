package scrape

import (
	"net/url"
	"strings"

	"jobfeed-engine/internal/domain"
)

// ResolveExternalURL guarantees a non-empty absolute URL for every served
// record: explicit link first, URL-shaped external id second, and a search
// deep link as the last resort.
func ResolveExternalURL(j domain.ProviderJob, providerLabel string) string {
	if u := strings.TrimSpace(j.ExternalURL); isAbsoluteHTTP(u) {
		return u
	}
	if id := strings.TrimSpace(j.ExternalID); isAbsoluteHTTP(id) {
		return id
	}
	return searchFallbackURL(j, providerLabel)
}

func isAbsoluteHTTP(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func searchFallbackURL(j domain.ProviderJob, providerLabel string) string {
	var terms []string
	for _, t := range []string{j.Title, j.Company, providerLabel, j.ExternalID} {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	q := url.Values{}
	q.Set("q", strings.Join(terms, " "))
	return "https://duckduckgo.com/?" + q.Encode()
}
