package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkUpsert measures single-document upserts against a file database,
// the workload of a full index run.
func BenchmarkUpsert(b *testing.B) {
	b.Run("insert", func(b *testing.B) {
		benchmarkUpserts(b, false)
	})

	b.Run("replace", func(b *testing.B) {
		benchmarkUpserts(b, true)
	})
}

func benchmarkUpserts(b *testing.B, replace bool) {
	b.Helper()

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewDocumentService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		n := i
		if replace {
			n = i % 10
		}
		doc := &docindex.Document{
			Path:    fmt.Sprintf("section%d/page%d.md", n%5, n),
			Title:   fmt.Sprintf("Page %d", n),
			Section: fmt.Sprintf("section%d", n%5),
			URL:     fmt.Sprintf("https://example.com/docs/section%d/page%d.html", n%5, n),
			Content: fmt.Sprintf("Page %d covers executors, partitions and shuffles. Lorem ipsum dolor sit amet, consectetur adipiscing elit.", n),
		}
		if err := svc.UpsertDocument(ctx, doc); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSearch measures ranked search over a populated index.
func BenchmarkSearch(b *testing.B) {
	const docs = 500

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewDocumentService(db)
	for i := range docs {
		require.NoError(b, svc.UpsertDocument(ctx, &docindex.Document{
			Path:    fmt.Sprintf("section%d/page%d.md", i%5, i),
			Title:   fmt.Sprintf("Page %d", i),
			Section: fmt.Sprintf("section%d", i%5),
			URL:     fmt.Sprintf("https://example.com/docs/page%d.html", i),
			Content: fmt.Sprintf("Page %d covers executors, partitions and shuffles.", i),
		}))
	}
	search := sqlite.NewSearchService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := search.Search(ctx, "partitions shuffle", docindex.SearchOptions{Limit: 10}); err != nil {
			b.Fatal(err)
		}
	}
}
