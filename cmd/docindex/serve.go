package main

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/fs"
	"github.com/fwojciec/docindex/index"
	"github.com/fwojciec/docindex/mcp"
)

// Run executes the serve command. The MCP server runs until its transport
// closes or the context is cancelled. With --watch, changed files are
// reindexed while it runs.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv, err := mcp.NewServer(deps.Search, deps.Documents, deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
		return err
	}

	ctx, cancel := context.WithCancel(deps.Ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if c.Watch != "" {
		w, err := c.watcher(deps)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docindex.ErrorMessage(err))
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
		deps.Logger.Info("watching documentation", "dir", c.Watch)
	}

	g.Go(func() error {
		// The watcher stops when the client disconnects.
		defer cancel()
		if deps.Transport != nil {
			return srv.Run(ctx, deps.Transport)
		}
		return srv.RunStdio(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (c *ServeCmd) watcher(deps *Dependencies) (*fs.Watcher, error) {
	ix := &index.Indexer{Parser: deps.Parser, Documents: deps.Documents}

	w, err := fs.NewWatcher(c.Watch, func(ctx context.Context, path string) {
		doc, err := ix.IndexFile(ctx, c.Watch, path)
		if err != nil {
			deps.Logger.Warn("reindex file", "path", path, "error", err)
			return
		}
		deps.Logger.Info("reindexed", "path", doc.Path)
	})
	if err != nil {
		return nil, err
	}
	w.ErrorFn = func(err error) {
		deps.Logger.Warn("watch", "error", err)
	}
	return w, nil
}
