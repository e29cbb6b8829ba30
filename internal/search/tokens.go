package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// synonyms expands a normalized query token into extra tokens. Keys and
// values are already normalized.
var synonyms = map[string][]string{
	"pm":          {"product manager", "chef de produit", "product lead"},
	"po":          {"product owner"},
	"remote":      {"full remote", "teletravail"},
	"teletravail": {"remote", "full remote"},
	"dev":         {"developpeur", "developer", "software engineer"},
	"devops":      {"sre", "platform engineer"},
	"data":        {"data engineer", "data analyst"},
	"ux":          {"ui", "product designer"},
	"rh":          {"ressources humaines", "talent"},
	"commercial":  {"sales", "business developer"},
	"alternance":  {"apprentissage"},
	"stage":       {"stagiaire", "internship"},
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics, lowercases and trims.
func Normalize(s string) string {
	out, _, err := transform.String(deaccent, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// BuildQueryTokens normalizes a free-text query, splits it on
// whitespace/comma/slash and expands each token through the synonym table.
// An empty query means no ranking was requested and yields no tokens.
func BuildQueryTokens(query string) []string {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	parts := strings.FieldsFunc(q, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '/'
	})

	seen := map[string]bool{}
	var tokens []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			tokens = append(tokens, t)
		}
	}
	for _, p := range parts {
		add(p)
		for _, syn := range synonyms[p] {
			add(syn)
		}
	}
	return tokens
}
