package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docindex"
)

// Ensure LoggingParser implements docindex.Parser.
var _ docindex.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging. Failures log at warn level.
type LoggingParser struct {
	next   docindex.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next docindex.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// ParseFile delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) ParseFile(filePath, basePath string) (doc *docindex.Document, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		p.logger.Log(context.Background(), level, "parse file",
			"file", filePath,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseFile(filePath, basePath)
}
