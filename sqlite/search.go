package sqlite

import (
	"context"
	"math"
	"strings"

	"github.com/fwojciec/docindex"
)

// Compile-time interface verification.
var _ docindex.SearchService = (*SearchService)(nil)

// searchQuery selects matching documents with a snippet of the content
// column (at most 64 tokens) and a bm25 score weighting title, description
// and content 5:2:1.
const searchQuery = `
	SELECT d.path, d.title, d.url, d.section,
		snippet(documents_fts, 2, '<mark>', '</mark>', '...', 64) AS snippet,
		bm25(documents_fts, 5.0, 2.0, 1.0) AS score
	FROM documents_fts
	JOIN documents d ON d.id = documents_fts.rowid
	WHERE documents_fts MATCH ?`

// SearchService implements docindex.SearchService using SQLite FTS5.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search runs an FTS5 query over title, description and content.
func (s *SearchService) Search(ctx context.Context, query string, opts docindex.SearchOptions) ([]*docindex.SearchResult, error) {
	match := matchExpression(docindex.ParseQuery(query))
	if match == "" {
		return []*docindex.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = docindex.DefaultSearchLimit
	}

	var b strings.Builder
	args := []any{match}

	b.WriteString(searchQuery)

	if opts.Section != "" {
		b.WriteString(" AND d.section = ?")
		args = append(args, opts.Section)
	}

	b.WriteString(" ORDER BY score, d.id LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*docindex.SearchResult{}
	for rows.Next() {
		var r docindex.SearchResult
		var score float64
		if err := rows.Scan(&r.Path, &r.Title, &r.URL, &r.Section, &r.Snippet, &score); err != nil {
			return nil, err
		}
		// bm25() is negative, more negative is more relevant.
		r.Score = math.Abs(score)
		results = append(results, &r)
	}

	return results, rows.Err()
}

// matchExpression renders parsed terms as an FTS5 MATCH expression. Each
// term becomes a quoted string so punctuation is tokenized, not parsed as
// query syntax. Adjacent strings are implicitly ANDed.
func matchExpression(terms []docindex.SearchTerm) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Operator {
			parts = append(parts, t.Text)
			continue
		}
		part := `"` + t.Text + `"`
		if t.Prefix {
			part += "*"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
