package main

import (
	"fmt"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/index"
	docslog "github.com/fwojciec/docindex/slog"
	"github.com/fwojciec/docindex/sqlite"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	if c.Swap {
		return c.swap(deps)
	}

	result, err := c.index(deps, deps.Documents)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	c.summary(deps, result)
	return nil
}

// swap builds the index into a fresh database and replaces the live one
// only after every file has been processed.
func (c *IndexCmd) swap(deps *Dependencies) error {
	snap, err := deps.NewSnapshot()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	documents := docslog.NewLoggingDocumentService(sqlite.NewDocumentService(snap.DB()), deps.Logger)
	result, err := c.index(deps, documents)
	if err != nil {
		if aerr := snap.Abort(); aerr != nil {
			deps.Logger.Warn("discard snapshot", "error", aerr)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	if err := snap.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	c.summary(deps, result)
	return nil
}

func (c *IndexCmd) index(deps *Dependencies, documents docindex.DocumentService) (*index.Result, error) {
	ix := &index.Indexer{
		Parser:      deps.Parser,
		Documents:   documents,
		Concurrency: c.Concurrency,
	}

	rebuild := c.Rebuild && !c.Swap
	return ix.IndexFrom(deps.Ctx, deps.Source, c.Branch, rebuild, func(e index.ProgressEvent) {
		switch e.Type {
		case index.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Found %d markdown files\n", e.Total)
		case index.ProgressFailed:
			deps.Logger.Warn("skip file", "path", e.Path, "error", e.Error)
		}
	})
}

func (c *IndexCmd) summary(deps *Dependencies, result *index.Result) {
	fmt.Fprintf(deps.Stdout, "Indexed %d documents", result.Indexed)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d skipped)", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)
}
