package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/docindex"
	main "github.com/fwojciec/docindex/cmd/docindex"
	"github.com/fwojciec/docindex/mock"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	hit := &docindex.SearchResult{
		Path:    "streaming/structured-streaming.md",
		Title:   "Structured Streaming",
		URL:     "https://spark.apache.org/docs/latest/streaming/structured-streaming.html",
		Section: "streaming",
		Snippet: "a <mark>stream</mark> processing engine",
		Score:   3.141592,
	}

	t.Run("prints formatted results", func(t *testing.T) {
		t.Parallel()

		var gotQuery string
		var gotOpts docindex.SearchOptions
		search := &mock.SearchService{
			SearchFn: func(_ context.Context, query string, opts docindex.SearchOptions) ([]*docindex.SearchResult, error) {
				gotQuery, gotOpts = query, opts
				return []*docindex.SearchResult{hit}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Search: search}

		cmd := &main.SearchCmd{Query: []string{"stream", "processing"}, Section: "streaming", Limit: 5}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "stream processing", gotQuery)
		assert.Equal(t, docindex.SearchOptions{Section: "streaming", Limit: 5}, gotOpts)
		assert.Contains(t, stdout.String(), "1. Structured Streaming (3.1416)")
		assert.Contains(t, stdout.String(), "streaming/structured-streaming.md [streaming]")
	})

	t.Run("clamps the limit", func(t *testing.T) {
		t.Parallel()

		var gotLimit int
		search := &mock.SearchService{
			SearchFn: func(_ context.Context, _ string, opts docindex.SearchOptions) ([]*docindex.SearchResult, error) {
				gotLimit = opts.Limit
				return nil, nil
			},
		}

		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Search: search}

		require.NoError(t, (&main.SearchCmd{Query: []string{"x"}, Limit: 500}).Run(deps))
		assert.Equal(t, docindex.MaxSearchLimit, gotLimit)
	})

	t.Run("prints message when nothing matches", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, docindex.SearchOptions) ([]*docindex.SearchResult, error) {
				return []*docindex.SearchResult{}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Search: search}

		require.NoError(t, (&main.SearchCmd{Query: []string{"quantum"}, Limit: 10}).Run(deps))
		assert.Equal(t, "No results found for query: 'quantum'\n", stdout.String())
	})

	t.Run("prints JSON response", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, docindex.SearchOptions) ([]*docindex.SearchResult, error) {
				return []*docindex.SearchResult{hit}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Search: search}

		require.NoError(t, (&main.SearchCmd{Query: []string{"stream"}, Limit: 10, JSON: true}).Run(deps))

		var resp docindex.SearchResponse
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
		assert.Equal(t, "stream", resp.Query)
		assert.Equal(t, 1, resp.ResultCount)
		assert.Nil(t, resp.SectionFilter)
		assert.InDelta(t, 3.1416, resp.Results[0].RelevanceScore, 1e-9)
	})

	t.Run("reports search failure", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(context.Context, string, docindex.SearchOptions) ([]*docindex.SearchResult, error) {
				return nil, errors.New("database is locked")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Search: search}

		err := (&main.SearchCmd{Query: []string{"x"}, Limit: 10}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: Internal error.\n", stderr.String())
	})
}
