package domain

import "time"

// ProviderJob is the transient, provider-side record shape produced by a
// provider's MapItem. ExternalID and Title are required; items missing either
// are filtered out before persistence, not treated as errors.
type ProviderJob struct {
	ExternalID  string
	Title       string
	Company     string
	Location    string
	Category    string
	Description string
	Remote      *bool
	SalaryMin   *float64
	SalaryMax   *float64
	Tags        []string
	PublishedAt *time.Time
	ExternalURL string
}

// JobRecord is the canonical persisted/served shape.
type JobRecord struct {
	ID          string    `json:"id"`
	Source      string    `json:"source,omitempty"` // provider id; empty for manual entries
	ExternalID  string    `json:"externalId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Remote      bool      `json:"remote"`
	SalaryMin   float64   `json:"salaryMin"`
	SalaryMax   float64   `json:"salaryMax"`
	Tags        []string  `json:"tags"`
	ExternalURL string    `json:"externalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	FetchedAt   time.Time `json:"fetchedAt"`
}
