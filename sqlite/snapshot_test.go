package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docindex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countAt(t *testing.T, path string) int {
	t.Helper()
	db := sqlite.NewDB(path)
	require.NoError(t, db.Open())
	defer db.Close()
	n, err := sqlite.NewDocumentService(db).CountDocuments(context.Background())
	require.NoError(t, err)
	return n
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("commit replaces live database", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "docs.db")
		ctx := context.Background()

		live := sqlite.NewDB(dbPath)
		require.NoError(t, live.Open())
		require.NoError(t, sqlite.NewDocumentService(live).UpsertDocument(ctx, newDoc("old.md", "Old", "old")))
		require.NoError(t, live.Close())

		snap, err := sqlite.NewSnapshot(dbPath)
		require.NoError(t, err)
		docs := sqlite.NewDocumentService(snap.DB())
		require.NoError(t, docs.UpsertDocument(ctx, newDoc("a.md", "A", "a")))
		require.NoError(t, docs.UpsertDocument(ctx, newDoc("b.md", "B", "b")))

		assert.Equal(t, 1, countAt(t, dbPath), "live database unchanged before commit")

		require.NoError(t, snap.Commit())

		assert.Equal(t, 2, countAt(t, dbPath))
		assert.NoFileExists(t, dbPath+".tmp")
	})

	t.Run("commit creates database when none exists", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "docs.db")

		snap, err := sqlite.NewSnapshot(dbPath)
		require.NoError(t, err)
		require.NoError(t, sqlite.NewDocumentService(snap.DB()).UpsertDocument(context.Background(), newDoc("a.md", "A", "a")))
		require.NoError(t, snap.Commit())

		assert.Equal(t, 1, countAt(t, dbPath))
	})

	t.Run("abort leaves live database untouched", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "docs.db")
		ctx := context.Background()

		live := sqlite.NewDB(dbPath)
		require.NoError(t, live.Open())
		require.NoError(t, sqlite.NewDocumentService(live).UpsertDocument(ctx, newDoc("old.md", "Old", "old")))
		require.NoError(t, live.Close())

		snap, err := sqlite.NewSnapshot(dbPath)
		require.NoError(t, err)
		require.NoError(t, sqlite.NewDocumentService(snap.DB()).UpsertDocument(ctx, newDoc("a.md", "A", "a")))
		require.NoError(t, snap.Abort())

		assert.Equal(t, 1, countAt(t, dbPath))
		assert.NoFileExists(t, dbPath+".tmp")
	})

	t.Run("discards leftover temp database", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "docs.db")
		require.NoError(t, os.WriteFile(dbPath+".tmp", []byte("garbage"), 0o644))

		snap, err := sqlite.NewSnapshot(dbPath)
		require.NoError(t, err)
		defer snap.Abort()

		n, err := sqlite.NewDocumentService(snap.DB()).CountDocuments(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rejects memory database", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewSnapshot(sqlite.MemoryPath)
		require.Error(t, err)
	})
}
