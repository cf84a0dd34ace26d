package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docindex"
)

// Ensure LoggingSource implements docindex.Source.
var _ docindex.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with logging.
type LoggingSource struct {
	next   docindex.Source
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next docindex.Source, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// Open delegates to the wrapped source and logs the operation.
func (s *LoggingSource) Open(ctx context.Context, ref string) (tree *docindex.Tree, err error) {
	defer func(begin time.Time) {
		dir := ""
		if tree != nil {
			dir = tree.Dir
		}
		s.logger.InfoContext(ctx, "open source",
			"ref", ref,
			"dir", dir,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Open(ctx, ref)
}
