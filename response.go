package docindex

import (
	"fmt"
	"math"
)

// ReadSuggestion is returned alongside a not-found read.
const ReadSuggestion = "Use search_documentation to find valid document paths."

// SearchResponse is the outward shape of a search operation. Message is set
// only when there are no results.
type SearchResponse struct {
	Message       string      `json:"message,omitempty"`
	Query         string      `json:"query,omitempty"`
	SectionFilter *string     `json:"section_filter,omitempty"`
	ResultCount   int         `json:"result_count,omitempty"`
	Results       []SearchHit `json:"results"`
}

// SearchHit is one result of a SearchResponse.
type SearchHit struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Path           string  `json:"path"`
	Section        string  `json:"section"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewSearchResponse builds the response for query from results.
func NewSearchResponse(query, section string, results []*SearchResult) *SearchResponse {
	if len(results) == 0 {
		return &SearchResponse{
			Message: fmt.Sprintf("No results found for query: '%s'", query),
			Results: []SearchHit{},
		}
	}

	resp := &SearchResponse{
		Query:       query,
		ResultCount: len(results),
		Results:     make([]SearchHit, 0, len(results)),
	}
	if section != "" {
		resp.SectionFilter = &section
	}
	for _, r := range results {
		resp.Results = append(resp.Results, SearchHit{
			Title:          r.Title,
			URL:            r.URL,
			Path:           r.Path,
			Section:        r.Section,
			Snippet:        r.Snippet,
			RelevanceScore: RoundScore(r.Score),
		})
	}
	return resp
}

// NoResults reports whether the response carries no hits.
func (r *SearchResponse) NoResults() bool {
	return len(r.Results) == 0
}

// ReadResponse is the outward shape of a read operation. Either the document
// fields or Error and Suggestion are set.
type ReadResponse struct {
	Path        string  `json:"path,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Section     string  `json:"section,omitempty"`
	URL         string  `json:"url,omitempty"`
	Content     string  `json:"content,omitempty"`

	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewReadResponse builds the response for a document.
func NewReadResponse(doc *Document) *ReadResponse {
	resp := &ReadResponse{
		Path:    doc.Path,
		Title:   doc.Title,
		Section: doc.Section,
		URL:     doc.URL,
		Content: doc.Content,
	}
	if doc.Description != "" {
		desc := doc.Description
		resp.Description = &desc
	}
	return resp
}

// NewNotFoundResponse builds the response for a path with no document.
func NewNotFoundResponse(path string) *ReadResponse {
	return &ReadResponse{
		Error:      fmt.Sprintf("Document not found: %s", path),
		Suggestion: ReadSuggestion,
	}
}

// NotFound reports whether the response is a not-found result.
func (r *ReadResponse) NotFound() bool {
	return r.Error != ""
}

// RoundScore rounds a relevance score to four decimal places.
func RoundScore(score float64) float64 {
	return math.Round(score*1e4) / 1e4
}
