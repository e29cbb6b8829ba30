package provider

import (
	"fmt"
	"strings"

	"jobfeed-engine/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

// Definitions returns the provider table. Providers without a default
// endpoint (credentialed APIs, operator-supplied bridges) stay unconfigured
// until settings provide one.
func Definitions() []Definition {
	return []Definition{
		franceTravail(),
		adzuna(),
		apec(),
		wttj(),
		jooble(),
		remotive(),
		remoteOK(),
		arbeitnow(),
		jobicy(),
		himalayas(),
		theMuse(),
		rssBridge("hellowork-rss", "HelloWork", "tech"),
		rssBridge("indeed-rss", "Indeed", "tech"),
		rssBridge("linkedin-rss", "LinkedIn", "tech"),
	}
}

// France Travail (ex Pôle emploi) "Offres d'emploi" v2. Credentialed: the
// operator supplies the endpoint and OAuth token via settings.
func franceTravail() Definition {
	return Definition{
		ID:              "francetravail",
		Label:           "France Travail",
		DefaultCategory: "general",
		Language:        "fr",
		MaxBatchSize:    150,
		Pagination:      &Pagination{StartPage: 0, MaxPages: 5, ZeroBased: true},
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			start := fc.Page * fc.Limit
			return map[string]string{
				"range": fmt.Sprintf("%d-%d", start, start+fc.Limit-1),
				"sort":  "1",
			}
		},
		ItemsPath: "resultats",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "intitule")
			if id == "" || title == "" {
				return nil
			}
			var remote *bool
			if s := PickString(item, "dispositifTeletravail", "natureContrat"); s != "" {
				remote = boolPtr(strings.Contains(strings.ToLower(s), "télétravail"))
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "entreprise.nom"),
				Location:    PickString(item, "lieuTravail.libelle"),
				Category:    PickString(item, "romeLibelle", "typeContratLibelle"),
				Description: PickString(item, "description"),
				Remote:      remote,
				Tags:        TagsFrom(Dig(item, "appellationlibelle")),
				PublishedAt: PickTime(item, "dateCreation", "dateActualisation"),
				ExternalURL: PickString(item, "origineOffre.urlOrigine"),
			}
		},
	}
}

// Adzuna search API. The operator-supplied endpoint carries app_id/app_key.
func adzuna() Definition {
	return Definition{
		ID:              "adzuna",
		Label:           "Adzuna",
		DefaultCategory: "general",
		Language:        "fr",
		MaxBatchSize:    50,
		Pagination:      &Pagination{StartPage: 1, MaxPages: 3},
		Query:           map[string]string{"content-type": "application/json", "sort_by": "date"},
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{
				"results_per_page": fmt.Sprintf("%d", fc.Limit),
				"page":             fmt.Sprintf("%d", fc.Page),
			}
		},
		ItemsPath: "results",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "title")
			if id == "" || title == "" {
				return nil
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "company.display_name"),
				Location:    PickString(item, "location.display_name"),
				Category:    PickString(item, "category.label"),
				Description: PickString(item, "description"),
				SalaryMin:   PickNumber(item, "salary_min"),
				SalaryMax:   PickNumber(item, "salary_max"),
				PublishedAt: PickTime(item, "created"),
				ExternalURL: PickString(item, "redirect_url"),
			}
		},
	}
}

// Apec public search endpoint, POST with a pagination body.
func apec() Definition {
	return Definition{
		ID:              "apec",
		Label:           "Apec",
		DefaultCategory: "cadres",
		Language:        "fr",
		MaxBatchSize:    100,
		Pagination:      &Pagination{StartPage: 0, MaxPages: 5, ZeroBased: true},
		Endpoint:        "https://www.apec.fr/cms/webservices/rechercheOffre",
		Method:          "POST",
		BuildBody: func(fc FetchContext, _ Settings) any {
			return map[string]any{
				"pagination": map[string]int{
					"startIndex": fc.Page * fc.Limit,
					"range":      fc.Limit,
				},
				"activeFiltre": true,
				"sorts":        []map[string]string{{"type": "DATE", "direction": "DESCENDING"}},
			}
		},
		ItemsPath: "resultats",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "numeroOffre", "id")
			title := PickString(item, "intitule")
			if id == "" || title == "" {
				return nil
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "nomCommercial", "nomClientConfidentiel"),
				Location:    PickString(item, "lieuTexte"),
				Description: PickString(item, "texteOffre"),
				SalaryMin:   PickNumber(item, "salaireMin"),
				SalaryMax:   PickNumber(item, "salaireMax"),
				PublishedAt: PickTime(item, "datePublication"),
				ExternalURL: PickString(item, "urlOffre"),
			}
		},
	}
}

// Welcome to the Jungle. Credentialed; endpoint+token via settings.
func wttj() Definition {
	return Definition{
		ID:              "wttj",
		Label:           "Welcome to the Jungle",
		DefaultCategory: "tech",
		Language:        "fr",
		MaxBatchSize:    30,
		Pagination:      &Pagination{StartPage: 1, MaxPages: 5},
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{
				"per_page": fmt.Sprintf("%d", fc.Limit),
				"page":     fmt.Sprintf("%d", fc.Page),
			}
		},
		ItemsPath: "jobs",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "reference", "id")
			title := PickString(item, "name", "title")
			if id == "" || title == "" {
				return nil
			}
			var remote *bool
			if s := PickString(item, "remote"); s != "" {
				remote = boolPtr(s == "fulltime" || strings.EqualFold(s, "full"))
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "organization.name"),
				Location:    PickString(item, "office.city", "office.name"),
				Category:    PickString(item, "profession.category_name", "contract_type"),
				Description: PickString(item, "description"),
				Remote:      remote,
				PublishedAt: PickTime(item, "published_at"),
				ExternalURL: PickString(item, "url"),
			}
		},
	}
}

// Jooble POST API; the endpoint embeds the API key, so no default.
func jooble() Definition {
	return Definition{
		ID:              "jooble",
		Label:           "Jooble",
		DefaultCategory: "general",
		Language:        "fr",
		MaxBatchSize:    50,
		Pagination:      &Pagination{StartPage: 1, MaxPages: 4},
		Method:          "POST",
		BuildBody: func(fc FetchContext, _ Settings) any {
			return map[string]any{
				"keywords": "",
				"location": "France",
				"page":     fc.Page,
			}
		},
		ItemsPath: "jobs",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "title")
			if id == "" || title == "" {
				return nil
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "company"),
				Location:    PickString(item, "location"),
				Category:    PickString(item, "type"),
				Description: PickString(item, "snippet"),
				PublishedAt: PickTime(item, "updated"),
				ExternalURL: PickString(item, "link"),
			}
		},
	}
}

func remotive() Definition {
	return Definition{
		ID:              "remotive",
		Label:           "Remotive",
		DefaultCategory: "remote",
		Language:        "en",
		MaxBatchSize:    100,
		Endpoint:        "https://remotive.com/api/remote-jobs",
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{"limit": fmt.Sprintf("%d", fc.Limit)}
		},
		ItemsPath: "jobs",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "title")
			if id == "" || title == "" {
				return nil
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "company_name"),
				Location:    PickString(item, "candidate_required_location"),
				Category:    PickString(item, "category"),
				Description: PickString(item, "description"),
				Remote:      boolPtr(true),
				SalaryMin:   NumberFrom(Dig(item, "salary")),
				Tags:        TagsFrom(Dig(item, "tags")),
				PublishedAt: PickTime(item, "publication_date"),
				ExternalURL: PickString(item, "url"),
			}
		},
	}
}

// Remote OK root-array API. The first element is a legal-notice object with
// no id/position, which the required-field check drops.
func remoteOK() Definition {
	return Definition{
		ID:              "remoteok",
		Label:           "Remote OK",
		DefaultCategory: "remote",
		Language:        "en",
		MaxBatchSize:    200,
		Endpoint:        "https://remoteok.com/api",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "position", "title")
			if id == "" || title == "" {
				return nil
			}
			published := PickTime(item, "date")
			if published == nil {
				published = EpochTimeFrom(Dig(item, "epoch"))
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "company"),
				Location:    PickString(item, "location"),
				Description: PickString(item, "description"),
				Remote:      boolPtr(true),
				SalaryMin:   PickNumber(item, "salary_min"),
				SalaryMax:   PickNumber(item, "salary_max"),
				Tags:        TagsFrom(Dig(item, "tags")),
				PublishedAt: published,
				ExternalURL: PickString(item, "apply_url", "url"),
			}
		},
	}
}

// Arbeitnow job board API; created_at is epoch seconds.
func arbeitnow() Definition {
	return Definition{
		ID:              "arbeitnow",
		Label:           "Arbeitnow",
		DefaultCategory: "tech",
		Language:        "en",
		MaxBatchSize:    100,
		Pagination:      &Pagination{StartPage: 1, MaxPages: 3},
		Endpoint:        "https://www.arbeitnow.com/api/job-board-api",
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{"page": fmt.Sprintf("%d", fc.Page)}
		},
		ItemsPath: "data",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "slug")
			title := PickString(item, "title")
			if id == "" || title == "" {
				return nil
			}
			tags := TagsFrom(Dig(item, "tags"))
			tags = append(tags, TagsFrom(Dig(item, "job_types"))...)
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "company_name"),
				Location:    PickString(item, "location"),
				Description: PickString(item, "description"),
				Remote:      BoolFrom(Dig(item, "remote")),
				Tags:        tags,
				PublishedAt: EpochTimeFrom(Dig(item, "created_at")),
				ExternalURL: PickString(item, "url"),
			}
		},
	}
}

func jobicy() Definition {
	return Definition{
		ID:              "jobicy",
		Label:           "Jobicy",
		DefaultCategory: "remote",
		Language:        "en",
		MaxBatchSize:    50,
		Endpoint:        "https://jobicy.com/api/v2/remote-jobs",
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{"count": fmt.Sprintf("%d", fc.Limit)}
		},
		ItemsPath: "jobs",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "jobTitle")
			if id == "" || title == "" {
				return nil
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "companyName"),
				Location:    PickString(item, "jobGeo"),
				Category:    PickString(item, "jobType"),
				Description: PickString(item, "jobDescription", "jobExcerpt"),
				Remote:      boolPtr(true),
				SalaryMin:   PickNumber(item, "annualSalaryMin"),
				SalaryMax:   PickNumber(item, "annualSalaryMax"),
				Tags:        TagsFrom(Dig(item, "jobIndustry")),
				PublishedAt: PickTime(item, "pubDate"),
				ExternalURL: PickString(item, "url"),
			}
		},
	}
}

func himalayas() Definition {
	return Definition{
		ID:              "himalayas",
		Label:           "Himalayas",
		DefaultCategory: "remote",
		Language:        "en",
		MaxBatchSize:    100,
		Endpoint:        "https://himalayas.app/jobs/api",
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{"limit": fmt.Sprintf("%d", fc.Limit)}
		},
		ItemsPath: "jobs",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "guid", "applicationLink")
			title := PickString(item, "title")
			if id == "" || title == "" {
				return nil
			}
			published := EpochTimeFrom(Dig(item, "pubDate"))
			if published == nil {
				published = PickTime(item, "pubDate")
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "companyName"),
				Description: PickString(item, "description", "excerpt"),
				Remote:      boolPtr(true),
				SalaryMin:   PickNumber(item, "minSalary"),
				SalaryMax:   PickNumber(item, "maxSalary"),
				Tags:        TagsFrom(Dig(item, "categories")),
				PublishedAt: published,
				ExternalURL: PickString(item, "applicationLink"),
			}
		},
	}
}

func theMuse() Definition {
	return Definition{
		ID:              "themuse",
		Label:           "The Muse",
		DefaultCategory: "general",
		Language:        "en",
		MaxBatchSize:    20,
		Pagination:      &Pagination{StartPage: 1, MaxPages: 5},
		Endpoint:        "https://www.themuse.com/api/public/jobs",
		BuildQuery: func(fc FetchContext, _ Settings) map[string]string {
			return map[string]string{"page": fmt.Sprintf("%d", fc.Page)}
		},
		ItemsPath: "results",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "id")
			title := PickString(item, "name")
			if id == "" || title == "" {
				return nil
			}
			job := &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "company.name"),
				Description: PickString(item, "contents"),
				PublishedAt: PickTime(item, "publication_date"),
				ExternalURL: PickString(item, "refs.landing_page"),
			}
			if locs, ok := Dig(item, "locations").([]any); ok && len(locs) > 0 {
				if m, ok := locs[0].(map[string]any); ok {
					job.Location = StringFrom(m["name"])
				}
			}
			if cats, ok := Dig(item, "categories").([]any); ok && len(cats) > 0 {
				if m, ok := cats[0].(map[string]any); ok {
					job.Category = StringFrom(m["name"])
				}
			}
			return job
		},
	}
}

// rssBridge covers feeds exposed through an RSS-to-JSON bridge (rss2json
// shape). The operator supplies the bridge URL via settings; the item shape
// is identical across feeds.
func rssBridge(id, label, category string) Definition {
	return Definition{
		ID:              id,
		Label:           label,
		DefaultCategory: category,
		Language:        "fr",
		MaxBatchSize:    50,
		ItemsPath:       "items",
		MapItem: func(item map[string]any) *domain.ProviderJob {
			id := PickString(item, "guid", "link")
			title := PickString(item, "title")
			if id == "" || title == "" {
				return nil
			}
			return &domain.ProviderJob{
				ExternalID:  id,
				Title:       title,
				Company:     PickString(item, "author"),
				Description: PickString(item, "description", "content"),
				Tags:        TagsFrom(Dig(item, "categories")),
				PublishedAt: PickTime(item, "pubDate"),
				ExternalURL: PickString(item, "link"),
			}
		},
	}
}
