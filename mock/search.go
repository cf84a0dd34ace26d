package mock

import (
	"context"

	"github.com/fwojciec/docindex"
)

var _ docindex.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of docindex.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts docindex.SearchOptions) ([]*docindex.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts docindex.SearchOptions) ([]*docindex.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
