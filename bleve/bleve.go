// Package bleve provides a docindex store backed by a bleve full-text index.
//
// It implements the same document and search services as package sqlite and
// is selected with --backend=bleve.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/highlight/highlighter/html"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docindex"
)

// Compile-time interface verification.
var (
	_ docindex.DocumentService = (*Index)(nil)
	_ docindex.SearchService   = (*Index)(nil)
)

// Field boosts applied to a matching term.
const (
	titleBoost       = 5.0
	descriptionBoost = 2.0
	contentBoost     = 1.0
)

const timeFormat = time.RFC3339Nano

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("index is closed")

// record is the stored form of a document. The bleve document ID is the path.
type record struct {
	ID          float64 `json:"id"`
	Path        string  `json:"path"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Section     string  `json:"section"`
	URL         string  `json:"url"`
	Content     string  `json:"content"`
	ContentHash string  `json:"content_hash"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Index stores documents in a bleve index. Writes take the write lock and
// are applied as one batch, reads take the read lock.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	nextID int64
	closed bool
}

// Open opens the index at path, creating it if it does not exist. An empty
// path opens an in-memory index.
func Open(path string) (*Index, error) {
	m, err := newMapping()
	if err != nil {
		return nil, err
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(m)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		idx, err = bleve.Open(path)
		if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
			idx, err = bleve.New(path, m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	i := &Index{index: idx, path: path}
	maxID, err := i.maxID()
	if err != nil {
		idx.Close()
		return nil, err
	}
	i.nextID = maxID + 1
	return i, nil
}

// Exists reports whether a bleve index has been created at path. An empty
// path is in-memory and always exists.
func Exists(path string) (bool, error) {
	if path == "" {
		return true, nil
	}
	_, err := os.Stat(filepath.Join(path, "index_meta.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// textAnalyzer tokenizes on unicode word boundaries, lowercases and applies
// the porter stemmer. Stop words are kept so that every query term has a
// token to match.
const textAnalyzer = "docindex_text"

// newMapping indexes text fields with textAnalyzer and stores identifying
// fields as keywords.
func newMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	err := m.AddCustomAnalyzer(textAnalyzer, map[string]any{
		"type":      custom.Name,
		"tokenizer": unicode.Name,
		"token_filters": []string{
			lowercase.Name,
			porter.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add analyzer: %w", err)
	}

	text := bleve.NewTextFieldMapping()
	text.Analyzer = textAnalyzer

	keyword := bleve.NewKeywordFieldMapping()

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Index = false

	numeric := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", numeric)
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("content", text)
	doc.AddFieldMappingsAt("path", keyword)
	doc.AddFieldMappingsAt("section", keyword)
	doc.AddFieldMappingsAt("url", keyword)
	doc.AddFieldMappingsAt("content_hash", storedOnly)
	doc.AddFieldMappingsAt("created_at", storedOnly)
	doc.AddFieldMappingsAt("updated_at", storedOnly)

	m.DefaultMapping = doc
	m.DefaultAnalyzer = textAnalyzer
	return m, nil
}

// Path returns the index directory, or "" for an in-memory index.
func (i *Index) Path() string {
	return i.path
}

// Close closes the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return nil
	}
	i.closed = true
	return i.index.Close()
}

// UpsertDocument inserts a document or replaces the one with the same path.
// The stale entry is deleted and the new one indexed in a single batch.
func (i *Index) UpsertDocument(ctx context.Context, doc *docindex.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return ErrClosed
	}

	now := time.Now().UTC()
	existing, err := i.find(ctx, doc.Path)
	switch {
	case docindex.ErrorCode(err) == docindex.ENOTFOUND:
		doc.ID = i.nextID
		doc.CreatedAt = now
	case err != nil:
		return err
	default:
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	}
	doc.UpdatedAt = now
	doc.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64String(doc.Content))

	batch := i.index.NewBatch()
	batch.Delete(doc.Path)
	if err := batch.Index(doc.Path, toRecord(doc)); err != nil {
		return fmt.Errorf("index document %s: %w", doc.Path, err)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("write document %s: %w", doc.Path, err)
	}

	if doc.ID == i.nextID {
		i.nextID++
	}
	return nil
}

// FindDocumentByPath retrieves a document by its relative path.
func (i *Index) FindDocumentByPath(ctx context.Context, path string) (*docindex.Document, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return nil, ErrClosed
	}
	return i.find(ctx, path)
}

func (i *Index) find(ctx context.Context, path string) (*docindex.Document, error) {
	req := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{path}))
	req.Size = 1
	req.Fields = []string{"*"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", path, err)
	}
	if len(res.Hits) == 0 {
		return nil, docindex.Errorf(docindex.ENOTFOUND, "document not found: %s", path)
	}
	return fromFields(res.Hits[0].ID, res.Hits[0].Fields)
}

// ClearDocuments removes every document.
func (i *Index) ClearDocuments(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		return ErrClosed
	}

	count, err := i.index.DocCount()
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(count)

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	batch := i.index.NewBatch()
	for _, hit := range res.Hits {
		batch.Delete(hit.ID)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	return nil
}

// CountDocuments returns the number of stored documents.
func (i *Index) CountDocuments(ctx context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return 0, ErrClosed
	}

	n, err := i.index.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Search matches every query term against title, description and content
// with boosts 5, 2 and 1, highest score first.
func (i *Index) Search(ctx context.Context, q string, opts docindex.SearchOptions) ([]*docindex.SearchResult, error) {
	bq := buildQuery(docindex.ParseQuery(q))
	if bq == nil {
		return []*docindex.SearchResult{}, nil
	}
	if opts.Section != "" {
		section := bleve.NewTermQuery(opts.Section)
		section.SetField("section")
		bq.AddMust(section)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = docindex.DefaultSearchLimit
	}

	req := bleve.NewSearchRequest(bq)
	req.Size = limit
	req.Fields = []string{"title", "url", "section"}
	req.SortBy([]string{"-_score", "_id"})
	req.Highlight = bleve.NewHighlightWithStyle(html.Name)
	req.Highlight.AddField("content")

	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.closed {
		return nil, ErrClosed
	}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]*docindex.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := &docindex.SearchResult{
			Path:    hit.ID,
			Title:   stringField(hit.Fields, "title"),
			URL:     stringField(hit.Fields, "url"),
			Section: stringField(hit.Fields, "section"),
			Score:   hit.Score,
		}
		if frags := hit.Fragments["content"]; len(frags) > 0 {
			r.Snippet = frags[0]
		}
		results = append(results, r)
	}
	return results, nil
}

// buildQuery combines terms into a boolean query. Adjacent terms are
// required, OR joins a term to the previous clause and NOT excludes the
// following term. Returns nil when no term remains.
func buildQuery(terms []docindex.SearchTerm) *query.BooleanQuery {
	var must []query.Query
	var mustNot []query.Query
	var op string

	for _, t := range terms {
		if t.Operator {
			op = t.Text
			continue
		}
		q := termQuery(t)
		switch {
		case op == "OR" && len(must) > 0:
			must[len(must)-1] = bleve.NewDisjunctionQuery(must[len(must)-1], q)
		case op == "NOT":
			mustNot = append(mustNot, q)
		default:
			must = append(must, q)
		}
		op = ""
	}

	if len(must) == 0 {
		return nil
	}

	bq := bleve.NewBooleanQuery()
	bq.AddMust(must...)
	if len(mustNot) > 0 {
		bq.AddMustNot(mustNot...)
	}
	return bq
}

// termQuery matches one term in any of the boosted text fields.
func termQuery(t docindex.SearchTerm) query.Query {
	fields := []struct {
		name  string
		boost float64
	}{
		{"title", titleBoost},
		{"description", descriptionBoost},
		{"content", contentBoost},
	}

	dq := bleve.NewDisjunctionQuery()
	for _, f := range fields {
		if t.Prefix {
			pq := bleve.NewPrefixQuery(strings.ToLower(t.Text))
			pq.SetField(f.name)
			pq.SetBoost(f.boost)
			dq.AddQuery(pq)
			continue
		}
		mq := bleve.NewMatchQuery(t.Text)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		mq.SetOperator(query.MatchQueryOperatorAnd)
		dq.AddQuery(mq)
	}
	return dq
}

// maxID returns the largest stored document id, or zero when empty.
func (i *Index) maxID() (int64, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = 1
	req.Fields = []string{"id"}
	req.SortBy([]string{"-id"})

	res, err := i.index.Search(req)
	if err != nil {
		return 0, fmt.Errorf("read max id: %w", err)
	}
	if len(res.Hits) == 0 {
		return 0, nil
	}
	id, _ := res.Hits[0].Fields["id"].(float64)
	return int64(id), nil
}

func toRecord(doc *docindex.Document) record {
	return record{
		ID:          float64(doc.ID),
		Path:        doc.Path,
		Title:       doc.Title,
		Description: doc.Description,
		Section:     doc.Section,
		URL:         doc.URL,
		Content:     doc.Content,
		ContentHash: doc.ContentHash,
		CreatedAt:   doc.CreatedAt.Format(timeFormat),
		UpdatedAt:   doc.UpdatedAt.Format(timeFormat),
	}
}

func fromFields(path string, fields map[string]any) (*docindex.Document, error) {
	id, _ := fields["id"].(float64)
	doc := &docindex.Document{
		ID:          int64(id),
		Path:        path,
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Section:     stringField(fields, "section"),
		URL:         stringField(fields, "url"),
		Content:     stringField(fields, "content"),
		ContentHash: stringField(fields, "content_hash"),
	}

	var err error
	if doc.CreatedAt, err = time.Parse(timeFormat, stringField(fields, "created_at")); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if doc.UpdatedAt, err = time.Parse(timeFormat, stringField(fields, "updated_at")); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return doc, nil
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
