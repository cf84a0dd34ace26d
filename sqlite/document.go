package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/docindex"
)

// Compile-time interface verification.
var _ docindex.DocumentService = (*DocumentService)(nil)

// DocumentService implements docindex.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// UpsertDocument inserts a document or replaces the one with the same path.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *docindex.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	doc.ContentHash = hashContent(doc.Content)
	if err := writeRecord(ctx, tx, doc, time.Now().UTC()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// writeRecord is the only code path that mutates a document. Within tx it
// removes the stale index entry, writes the primary record and writes the
// fresh index entry, so the two structures never disagree outside tx.
func writeRecord(ctx context.Context, tx *sql.Tx, doc *docindex.Document, now time.Time) error {
	var id int64
	var createdAt string

	err := tx.QueryRowContext(ctx, `SELECT id, created_at FROM documents WHERE path = ?`, doc.Path).
		Scan(&id, &createdAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, `
			INSERT INTO documents (path, title, description, section, url, content, content_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.Path, doc.Title, nullString(doc.Description), doc.Section, doc.URL, doc.Content,
			doc.ContentHash, formatTime(now), formatTime(now))
		if err != nil {
			return fmt.Errorf("insert document %s: %w", doc.Path, err)
		}
		if id, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("insert document %s: %w", doc.Path, err)
		}
		doc.CreatedAt = now

	case err != nil:
		return fmt.Errorf("find document %s: %w", doc.Path, err)

	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts WHERE rowid = ?`, id); err != nil {
			return fmt.Errorf("remove index entry for %s: %w", doc.Path, err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE documents
			SET title = ?, description = ?, section = ?, url = ?, content = ?, content_hash = ?, updated_at = ?
			WHERE id = ?
		`, doc.Title, nullString(doc.Description), doc.Section, doc.URL, doc.Content,
			doc.ContentHash, formatTime(now), id); err != nil {
			return fmt.Errorf("update document %s: %w", doc.Path, err)
		}

		if doc.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents_fts (rowid, title, description, content)
		VALUES (?, ?, ?, ?)
	`, id, doc.Title, nullString(doc.Description), doc.Content); err != nil {
		return fmt.Errorf("index document %s: %w", doc.Path, err)
	}

	doc.ID = id
	doc.UpdatedAt = now
	return nil
}

// FindDocumentByPath retrieves a document by its relative path.
func (s *DocumentService) FindDocumentByPath(ctx context.Context, path string) (*docindex.Document, error) {
	var doc docindex.Document
	var description sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, title, description, section, url, content, content_hash, created_at, updated_at
		FROM documents
		WHERE path = ?
	`, path).Scan(&doc.ID, &doc.Path, &doc.Title, &description, &doc.Section, &doc.URL,
		&doc.Content, &doc.ContentHash, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, docindex.Errorf(docindex.ENOTFOUND, "document not found: %s", path)
	}
	if err != nil {
		return nil, err
	}

	doc.Description = description.String
	if doc.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ClearDocuments removes every document and index entry.
func (s *DocumentService) ClearDocuments(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	return tx.Commit()
}

// CountDocuments returns the number of stored documents.
func (s *DocumentService) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
