// Package storetest provides search scenarios shared by the docindex store
// implementations. Each backend runs them from its own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/fwojciec/docindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store is a backend under test.
type Store interface {
	docindex.DocumentService
	docindex.SearchService
}

// OpenFunc returns an empty store that is closed when t ends.
type OpenFunc func(t *testing.T) Store

// Doc builds a document with section and URL derived from path.
func Doc(path, title, description, content string) *docindex.Document {
	return &docindex.Document{
		Path:        path,
		Title:       title,
		Description: description,
		Section:     docindex.DeriveSection(path),
		URL:         docindex.DeriveURL(docindex.DefaultBaseURL, path),
		Content:     content,
	}
}

// Streaming and SQL guides used by the end-to-end scenarios.
var (
	streamingGuide = Doc("streaming/programming-guide.md", "Structured Streaming Programming Guide", "Stream processing",
		"Structured Streaming is a scalable stream processing engine built on Spark SQL.")
	sqlGuide = Doc("sql-programming-guide.md", "Spark SQL Guide", "",
		"Spark SQL is a Spark module for structured data processing.")
	engineDoc = Doc("overview.md", "Overview", "",
		"Structured streaming in the Spark engine.")
	configDoc = Doc("configuration.md", "Configuration", "",
		"This page explains how to configure executor memory and cores.")
	executorDoc = Doc("executors.md", "Executors", "",
		"Executors run tasks.")
	partitionDoc = Doc("sql/partitions.md", "Tables", "",
		"Partitioned tables are split by key.")
)

type scenario struct {
	name  string
	docs  []*docindex.Document
	query string
	opts  docindex.SearchOptions

	// want lists the matching paths. The first one must rank first when
	// ranked is set; the rest may come in any order.
	want   []string
	ranked bool
}

var scenarios = []scenario{
	{
		name:  "streaming matches only the streaming guide",
		docs:  []*docindex.Document{streamingGuide, sqlGuide},
		query: "streaming",
		want:  []string{streamingGuide.Path},
	},
	{
		name:   "sql matches both guides with the titled one first",
		docs:   []*docindex.Document{streamingGuide, sqlGuide},
		query:  "sql",
		want:   []string{sqlGuide.Path, streamingGuide.Path},
		ranked: true,
	},
	{
		name:  "section filter keeps the streaming guide",
		docs:  []*docindex.Document{streamingGuide, sqlGuide},
		query: "sql",
		opts:  docindex.SearchOptions{Section: "streaming"},
		want:  []string{streamingGuide.Path},
	},
	{
		name:  "multi-word query requires every term",
		docs:  []*docindex.Document{streamingGuide, sqlGuide},
		query: "stream processing engine",
		want:  []string{streamingGuide.Path},
	},
	{
		name:  "explicit AND is the same as adjacent terms",
		docs:  []*docindex.Document{streamingGuide, sqlGuide},
		query: "spark AND sql",
		want:  []string{sqlGuide.Path, streamingGuide.Path},
	},
	{
		name:  "function words inside a query",
		docs:  []*docindex.Document{engineDoc, sqlGuide},
		query: "streaming in spark",
		want:  []string{engineDoc.Path},
	},
	{
		name:  "leading article",
		docs:  []*docindex.Document{engineDoc, sqlGuide},
		query: "the spark engine",
		want:  []string{engineDoc.Path},
	},
	{
		name:  "natural language question",
		docs:  []*docindex.Document{configDoc, executorDoc},
		query: "how to configure executor memory",
		want:  []string{configDoc.Path},
	},
	{
		name:  "stemmed forms match",
		docs:  []*docindex.Document{partitionDoc, executorDoc},
		query: "partitions table",
		want:  []string{partitionDoc.Path},
	},
	{
		name:  "control characters are ignored",
		docs:  []*docindex.Document{streamingGuide, sqlGuide},
		query: "\x00streaming",
		want:  []string{streamingGuide.Path},
	},
	{
		name:  "unmatched term returns nothing",
		docs:  []*docindex.Document{streamingGuide, sqlGuide},
		query: "streaming kafka",
		want:  []string{},
	},
}

// TestSearch runs every search scenario against a fresh store from open.
func TestSearch(t *testing.T, open OpenFunc) {
	t.Helper()

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			t.Parallel()

			store := open(t)
			ctx := context.Background()
			for _, doc := range sc.docs {
				cp := *doc
				require.NoError(t, store.UpsertDocument(ctx, &cp))
			}

			results, err := store.Search(ctx, sc.query, sc.opts)
			require.NoError(t, err)

			got := make([]string, 0, len(results))
			for _, r := range results {
				got = append(got, r.Path)
			}
			assert.ElementsMatch(t, sc.want, got)
			if sc.ranked && len(got) > 0 {
				assert.Equal(t, sc.want[0], got[0])
			}
		})
	}
}
