package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(path, title, content string) *docindex.Document {
	return &docindex.Document{
		Path:    path,
		Title:   title,
		Section: docindex.DeriveSection(path),
		URL:     docindex.DeriveURL(docindex.DefaultBaseURL, path),
		Content: content,
	}
}

func TestDocumentService_UpsertDocument(t *testing.T) {
	t.Parallel()

	t.Run("inserts document with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := newDoc("sql/joins.md", "Joins", "How to join tables.")
		doc.Description = "Join syntax"

		require.NoError(t, svc.UpsertDocument(ctx, doc))

		assert.NotZero(t, doc.ID, "ID should be generated")
		assert.NotEmpty(t, doc.ContentHash, "ContentHash should be generated")
		assert.False(t, doc.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	})

	t.Run("returns EINVALID for invalid document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		err := svc.UpsertDocument(context.Background(), &docindex.Document{})
		require.Error(t, err)
		assert.Equal(t, docindex.EINVALID, docindex.ErrorCode(err))
	})

	t.Run("replaces document with same path", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		first := newDoc("index.md", "Overview", "old text")
		require.NoError(t, svc.UpsertDocument(ctx, first))

		time.Sleep(2 * time.Millisecond)

		second := newDoc("index.md", "Overview v2", "new text")
		require.NoError(t, svc.UpsertDocument(ctx, second))

		n, err := svc.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		found, err := svc.FindDocumentByPath(ctx, "index.md")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "Overview v2", found.Title)
		assert.Equal(t, "new text", found.Content)
		assert.True(t, found.CreatedAt.Equal(first.CreatedAt), "CreatedAt should be preserved")
		assert.True(t, found.UpdatedAt.After(first.UpdatedAt), "UpdatedAt should advance")
	})

	t.Run("keeps exactly one index entry per document", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		for range 3 {
			require.NoError(t, svc.UpsertDocument(ctx, newDoc("a.md", "A", "alpha")))
		}
		require.NoError(t, svc.UpsertDocument(ctx, newDoc("b.md", "B", "beta")))

		var ftsCount int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents_fts").Scan(&ftsCount)
		require.NoError(t, err)
		assert.Equal(t, 2, ftsCount)
	})

	t.Run("stores empty description as NULL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertDocument(ctx, newDoc("a.md", "A", "alpha")))

		var description sql.NullString
		err := db.QueryRowContext(ctx, "SELECT description FROM documents WHERE path = ?", "a.md").Scan(&description)
		require.NoError(t, err)
		assert.False(t, description.Valid)
	})

	t.Run("same content yields same hash", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		a := newDoc("a.md", "A", "shared body")
		b := newDoc("b.md", "B", "shared body")
		c := newDoc("c.md", "C", "different body")
		require.NoError(t, svc.UpsertDocument(ctx, a))
		require.NoError(t, svc.UpsertDocument(ctx, b))
		require.NoError(t, svc.UpsertDocument(ctx, c))

		assert.Equal(t, a.ContentHash, b.ContentHash)
		assert.NotEqual(t, a.ContentHash, c.ContentHash)
	})
}

func TestDocumentService_FindDocumentByPath(t *testing.T) {
	t.Parallel()

	t.Run("returns stored fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		doc := newDoc("streaming/guide.md", "Streaming Guide", "Structured streaming basics.")
		doc.Description = "Getting started"
		require.NoError(t, svc.UpsertDocument(ctx, doc))

		found, err := svc.FindDocumentByPath(ctx, "streaming/guide.md")
		require.NoError(t, err)

		assert.Equal(t, doc.ID, found.ID)
		assert.Equal(t, "Streaming Guide", found.Title)
		assert.Equal(t, "Getting started", found.Description)
		assert.Equal(t, "streaming", found.Section)
		assert.Equal(t, "https://spark.apache.org/docs/latest/streaming/guide.html", found.URL)
		assert.Equal(t, "Structured streaming basics.", found.Content)
		assert.Equal(t, doc.ContentHash, found.ContentHash)
		assert.True(t, found.CreatedAt.Equal(doc.CreatedAt))
	})

	t.Run("returns ENOTFOUND for missing path", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)

		_, err := svc.FindDocumentByPath(context.Background(), "missing.md")
		require.Error(t, err)
		assert.Equal(t, docindex.ENOTFOUND, docindex.ErrorCode(err))
	})
}

func TestDocumentService_ClearDocuments(t *testing.T) {
	t.Parallel()

	t.Run("removes documents and index entries", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		search := sqlite.NewSearchService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertDocument(ctx, newDoc("a.md", "Alpha", "alpha text")))
		require.NoError(t, svc.UpsertDocument(ctx, newDoc("b.md", "Beta", "beta text")))

		require.NoError(t, svc.ClearDocuments(ctx))

		n, err := svc.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		results, err := search.Search(ctx, "alpha", docindex.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("store is usable after clear", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		require.NoError(t, svc.UpsertDocument(ctx, newDoc("a.md", "Alpha", "alpha text")))
		require.NoError(t, svc.ClearDocuments(ctx))
		require.NoError(t, svc.UpsertDocument(ctx, newDoc("a.md", "Alpha", "alpha text")))

		n, err := svc.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestDocumentService_CountDocuments(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewDocumentService(db)
	ctx := context.Background()

	n, err := svc.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, svc.UpsertDocument(ctx, newDoc("a.md", "A", "a")))
	require.NoError(t, svc.UpsertDocument(ctx, newDoc("b/c.md", "C", "c")))

	n, err = svc.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
