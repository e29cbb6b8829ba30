package search

import (
	"strings"

	"jobfeed-engine/internal/domain"
)

const (
	topLocationCap = 5
	topTagCap      = 6
)

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary is recomputed per query and never persisted.
type Summary struct {
	Count        int          `json:"count"`
	RemoteShare  float64      `json:"remoteShare"`
	SalaryRange  SalaryRange  `json:"salaryRange"`
	TopLocations []LabelCount `json:"topLocations"`
	TopTags      []LabelCount `json:"topTags"`
}

func emptySummary() Summary {
	return Summary{
		TopLocations: []LabelCount{},
		TopTags:      []LabelCount{},
	}
}

// BuildSummary aggregates facets over a result set. Salary range is the
// global min/max across the set, not matched pairs.
func BuildSummary(jobs []domain.JobRecord) Summary {
	if len(jobs) == 0 {
		return emptySummary()
	}

	s := Summary{Count: len(jobs)}
	remote := 0
	locations := newTally()
	tags := newTally()

	s.SalaryRange.Min = jobs[0].SalaryMin
	s.SalaryRange.Max = jobs[0].SalaryMax
	for _, j := range jobs {
		if j.Remote {
			remote++
		}
		if j.SalaryMin < s.SalaryRange.Min {
			s.SalaryRange.Min = j.SalaryMin
		}
		if j.SalaryMax > s.SalaryRange.Max {
			s.SalaryRange.Max = j.SalaryMax
		}
		if loc := strings.TrimSpace(j.Location); loc != "" {
			locations.add(loc)
		}
		for _, t := range j.Tags {
			// blank tags never make the tally
			if t = strings.TrimSpace(t); t != "" {
				tags.add(t)
			}
		}
	}

	s.RemoteShare = float64(remote) / float64(len(jobs))
	s.TopLocations = locations.top(topLocationCap)
	s.TopTags = tags.top(topTagCap)
	return s
}

// tally counts labels while remembering first-seen order, which breaks ties.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: map[string]int{}}
}

func (t *tally) add(label string) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (t *tally) top(n int) []LabelCount {
	out := make([]LabelCount, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, LabelCount{Label: label, Count: t.counts[label]})
	}
	// stable: equal counts keep first-seen order
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
