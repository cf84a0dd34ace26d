package mock

import (
	"context"

	"github.com/fwojciec/docindex"
)

var _ docindex.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of docindex.DocumentService.
type DocumentService struct {
	UpsertDocumentFn     func(ctx context.Context, doc *docindex.Document) error
	FindDocumentByPathFn func(ctx context.Context, path string) (*docindex.Document, error)
	ClearDocumentsFn     func(ctx context.Context) error
	CountDocumentsFn     func(ctx context.Context) (int, error)
}

func (s *DocumentService) UpsertDocument(ctx context.Context, doc *docindex.Document) error {
	return s.UpsertDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByPath(ctx context.Context, path string) (*docindex.Document, error) {
	return s.FindDocumentByPathFn(ctx, path)
}

func (s *DocumentService) ClearDocuments(ctx context.Context) error {
	return s.ClearDocumentsFn(ctx)
}

func (s *DocumentService) CountDocuments(ctx context.Context) (int, error) {
	return s.CountDocumentsFn(ctx)
}
