// Package index builds a docindex store from a tree of markdown files.
// It coordinates file discovery, parsing and storage.
package index

import (
	"context"
	"fmt"

	"github.com/fwojciec/docindex"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files parsed at once when
// Indexer.Concurrency is not set.
const DefaultConcurrency = 8

// Indexer parses markdown files and writes them to a document store.
type Indexer struct {
	Parser      docindex.Parser
	Documents   docindex.DocumentService
	Concurrency int
}

// Result holds the outcome of an index run.
type Result struct {
	Indexed  int
	Failed   int
	Failures []Failure
}

// Failure records a file that could not be parsed.
type Failure struct {
	Path string
	Err  error
}

// ProgressEvent reports progress during an index run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting index progress.
type ProgressFunc func(event ProgressEvent)

// parseResult holds the outcome of parsing a single file.
type parseResult struct {
	path string
	doc  *docindex.Document
	err  error
}

// IndexDirectory indexes every markdown file below dir. Files are parsed
// concurrently and written serially in lexical path order. A file that fails
// to parse is recorded in the Result and skipped. A storage error stops the
// run and is returned with the partial Result.
func (ix *Indexer) IndexDirectory(ctx context.Context, dir string, progress ProgressFunc) (*Result, error) {
	files, err := markdownFiles(dir)
	if err != nil {
		return nil, err
	}

	notify := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	total := len(files)
	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	parsed, err := ix.parseAll(ctx, dir, files)
	if err != nil {
		return &Result{}, err
	}

	result := &Result{}
	for i, p := range parsed {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if p.err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{Path: p.path, Err: p.err})
			notify(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: total, Path: p.path, Error: p.err})
			continue
		}

		if err := ix.Documents.UpsertDocument(ctx, p.doc); err != nil {
			return result, fmt.Errorf("store %s: %w", p.path, err)
		}
		result.Indexed++
		notify(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: total, Path: p.path})
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// parseAll parses files with bounded concurrency. Results keep the order of
// files. Only cancellation of ctx is returned as an error.
func (ix *Indexer) parseAll(ctx context.Context, dir string, files []string) ([]parseResult, error) {
	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]parseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := ix.Parser.ParseFile(file, dir)
			results[i] = parseResult{path: relPath(dir, file), doc: doc, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Rebuild clears the store, then indexes dir. Readers may observe the
// store partially populated while it runs.
func (ix *Indexer) Rebuild(ctx context.Context, dir string, progress ProgressFunc) (*Result, error) {
	if _, err := markdownFiles(dir); err != nil {
		return nil, err
	}
	if err := ix.Documents.ClearDocuments(ctx); err != nil {
		return nil, fmt.Errorf("clear documents: %w", err)
	}
	return ix.IndexDirectory(ctx, dir, progress)
}

// IndexFile parses and stores a single file below dir.
func (ix *Indexer) IndexFile(ctx context.Context, dir, filePath string) (*docindex.Document, error) {
	doc, err := ix.Parser.ParseFile(filePath, dir)
	if err != nil {
		return nil, err
	}
	if err := ix.Documents.UpsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store %s: %w", doc.Path, err)
	}
	return doc, nil
}

// IndexFrom opens ref from src and indexes the resulting tree. When rebuild
// is set the store is cleared first. The tree is released before returning.
func (ix *Indexer) IndexFrom(ctx context.Context, src docindex.Source, ref string, rebuild bool, progress ProgressFunc) (result *Result, err error) {
	tree, err := src.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := tree.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release source: %w", cerr)
		}
	}()

	if rebuild {
		return ix.Rebuild(ctx, tree.Dir, progress)
	}
	return ix.IndexDirectory(ctx, tree.Dir, progress)
}
