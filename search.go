package docindex

import (
	"context"
	"strings"
	"unicode"
)

// Search limits applied at the outward-facing boundary. Stores do not
// enforce an upper bound themselves.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// SearchService provides ranked keyword search over documents.
type SearchService interface {
	// Search returns documents matching every term of query, ordered by
	// descending score. An empty query returns no results.
	Search(ctx context.Context, query string, opts SearchOptions) ([]*SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Restrict results to documents in this section (exact match).
	Section string `json:"section,omitempty"`

	// Maximum number of results to return. Zero means DefaultSearchLimit.
	Limit int `json:"limit,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Path    string  `json:"path"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Section string  `json:"section"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// ClampLimit bounds a caller-supplied result limit to [1, MaxSearchLimit].
// Zero selects DefaultSearchLimit.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultSearchLimit
	}
	return min(max(1, limit), MaxSearchLimit)
}

// SearchTerm is one token of a parsed query.
type SearchTerm struct {
	Text     string
	Prefix   bool
	Operator bool
}

// ParseQuery splits a keyword query into terms. Whitespace separates terms,
// double quotes and control characters are dropped, a trailing '*' marks a
// prefix term, and the bare words OR and NOT are kept as operators. A bare
// AND is dropped since terms are already ANDed. Terms without a letter or
// digit are dropped. Operators that cannot apply
// (leading, trailing or repeated) are discarded.
func ParseQuery(query string) []SearchTerm {
	var terms []SearchTerm
	for _, field := range strings.Fields(query) {
		field = strings.Map(dropControl, field)
		if field == "AND" {
			continue
		}
		if field == "OR" || field == "NOT" {
			if len(terms) == 0 || terms[len(terms)-1].Operator {
				continue
			}
			terms = append(terms, SearchTerm{Text: field, Operator: true})
			continue
		}

		text := strings.ReplaceAll(field, `"`, "")
		prefix := strings.HasSuffix(text, "*")
		text = strings.TrimRight(text, "*")
		if strings.IndexFunc(text, isWordRune) < 0 {
			continue
		}
		terms = append(terms, SearchTerm{Text: text, Prefix: prefix})
	}

	if len(terms) > 0 && terms[len(terms)-1].Operator {
		terms = terms[:len(terms)-1]
	}
	return terms
}

func dropControl(r rune) rune {
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
