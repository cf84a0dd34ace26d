package docindex

import (
	"context"
	"time"
)

// Document represents one indexed documentation page, keyed by its path
// relative to the documentation root.
type Document struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Section     string    `json:"section"`
	URL         string    `json:"url"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Path == "" {
		return Errorf(EINVALID, "document path required")
	}
	if d.Title == "" {
		return Errorf(EINVALID, "document title required")
	}
	return nil
}

// DocumentMetadata holds the raw frontmatter fields of a source file before
// defaults are applied. Empty strings mean the field was absent or not a
// string.
type DocumentMetadata struct {
	Title       string
	Description string
	License     string
}

// DocumentService represents a service for managing documents.
//
// Implementations keep their search index in step with the stored
// documents: every change to a document changes its index entry in the same
// unit of work.
type DocumentService interface {
	// UpsertDocument inserts a document or replaces the one with the same
	// path. ID, ContentHash and timestamps are set on doc. CreatedAt of an
	// existing document is preserved.
	UpsertDocument(ctx context.Context, doc *Document) error

	// FindDocumentByPath retrieves a document by its relative path.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByPath(ctx context.Context, path string) (*Document, error)

	// ClearDocuments removes every document and index entry.
	ClearDocuments(ctx context.Context) error

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}
