package mock

import (
	"context"

	"github.com/fwojciec/docindex"
)

var _ docindex.Source = (*Source)(nil)

// Source is a mock implementation of docindex.Source.
type Source struct {
	OpenFn func(ctx context.Context, ref string) (*docindex.Tree, error)
}

func (s *Source) Open(ctx context.Context, ref string) (*docindex.Tree, error) {
	return s.OpenFn(ctx, ref)
}
