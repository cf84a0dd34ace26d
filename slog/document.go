// Package slog provides logging decorators for docindex services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docindex"
)

// Ensure LoggingDocumentService implements docindex.DocumentService.
var _ docindex.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with logging. Per-document
// operations log at debug level.
type LoggingDocumentService struct {
	next   docindex.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next docindex.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// UpsertDocument delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) UpsertDocument(ctx context.Context, doc *docindex.Document) (err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "upsert document",
			"path", doc.Path,
			"bytes", len(doc.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertDocument(ctx, doc)
}

// FindDocumentByPath delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) FindDocumentByPath(ctx context.Context, path string) (doc *docindex.Document, err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "find document",
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocumentByPath(ctx, path)
}

// ClearDocuments delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) ClearDocuments(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.InfoContext(ctx, "clear documents",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ClearDocuments(ctx)
}

// CountDocuments delegates to the wrapped service and logs the operation.
func (s *LoggingDocumentService) CountDocuments(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.DebugContext(ctx, "count documents",
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CountDocuments(ctx)
}
