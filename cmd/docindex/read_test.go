package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/docindex"
	main "github.com/fwojciec/docindex/cmd/docindex"
	"github.com/fwojciec/docindex/mock"
)

func TestReadCmd_Run(t *testing.T) {
	t.Parallel()

	doc := &docindex.Document{
		Path:        "sql/getting-started.md",
		Title:       "Getting Started",
		Description: "First steps with Spark SQL",
		Section:     "sql",
		URL:         "https://spark.apache.org/docs/latest/sql/getting-started.html",
		Content:     "Run SQL queries.",
	}

	documents := &mock.DocumentService{
		FindDocumentByPathFn: func(_ context.Context, path string) (*docindex.Document, error) {
			if path == doc.Path {
				return doc, nil
			}
			return nil, docindex.Errorf(docindex.ENOTFOUND, "document not found: %s", path)
		},
	}

	t.Run("prints the document", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: documents}

		require.NoError(t, (&main.ReadCmd{Path: doc.Path}).Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "# Getting Started")
		assert.Contains(t, out, "description: First steps with Spark SQL")
		assert.Contains(t, out, "Run SQL queries.")
	})

	t.Run("prints JSON response", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: documents}

		require.NoError(t, (&main.ReadCmd{Path: doc.Path, JSON: true}).Run(deps))

		var resp docindex.ReadResponse
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
		assert.Equal(t, doc.Path, resp.Path)
		require.NotNil(t, resp.Description)
		assert.Equal(t, doc.Description, *resp.Description)
	})

	t.Run("reports missing document with suggestion", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Documents: documents}

		err := (&main.ReadCmd{Path: "nope.md"}).Run(deps)

		assert.Equal(t, docindex.ENOTFOUND, docindex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Document not found: nope.md")
		assert.Contains(t, stderr.String(), docindex.ReadSuggestion)
	})

	t.Run("prints JSON not-found response", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Documents: documents}

		err := (&main.ReadCmd{Path: "nope.md", JSON: true}).Run(deps)

		assert.Equal(t, docindex.ENOTFOUND, docindex.ErrorCode(err))
		var resp docindex.ReadResponse
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
		assert.True(t, resp.NotFound())
		assert.Equal(t, docindex.ReadSuggestion, resp.Suggestion)
	})
}
