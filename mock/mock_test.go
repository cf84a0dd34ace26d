package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_UpsertDocument(t *testing.T) {
	t.Parallel()

	t.Run("delegates to UpsertDocumentFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *docindex.Document
		s := &mock.DocumentService{
			UpsertDocumentFn: func(_ context.Context, doc *docindex.Document) error {
				calledWith = doc
				return nil
			},
		}

		doc := &docindex.Document{Path: "a.md", Title: "A"}
		require.NoError(t, s.UpsertDocument(context.Background(), doc))
		assert.Same(t, doc, calledWith)
	})

	t.Run("returns error from UpsertDocumentFn", func(t *testing.T) {
		t.Parallel()

		s := &mock.DocumentService{
			UpsertDocumentFn: func(_ context.Context, _ *docindex.Document) error {
				return docindex.Errorf(docindex.EINVALID, "bad")
			},
		}

		err := s.UpsertDocument(context.Background(), &docindex.Document{})
		assert.Equal(t, docindex.EINVALID, docindex.ErrorCode(err))
	})
}

func TestSource_Open(t *testing.T) {
	t.Parallel()

	s := &mock.Source{
		OpenFn: func(_ context.Context, ref string) (*docindex.Tree, error) {
			return &docindex.Tree{Dir: "/docs/" + ref}, nil
		},
	}

	tree, err := s.Open(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "/docs/main", tree.Dir)
}
