// Package markdown parses markdown documentation files with YAML
// frontmatter into docindex documents.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docindex"
	"gopkg.in/yaml.v3"
)

// Ensure Parser implements docindex.Parser at compile time.
var _ docindex.Parser = (*Parser)(nil)

// Parser implements docindex.Parser for markdown files.
type Parser struct {
	// BaseURL is prefixed to derived document URLs.
	BaseURL string
}

// NewParser creates a Parser linking documents under baseURL.
// An empty baseURL selects docindex.DefaultBaseURL.
func NewParser(baseURL string) *Parser {
	if baseURL == "" {
		baseURL = docindex.DefaultBaseURL
	}
	return &Parser{BaseURL: baseURL}
}

// ParseFile reads a markdown file and builds its document.
func (p *Parser) ParseFile(filePath, basePath string) (*docindex.Document, error) {
	rel, err := filepath.Rel(basePath, filePath)
	if err != nil {
		return nil, docindex.Errorf(docindex.EINVALID, "%s is not under %s", filePath, basePath)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, docindex.Errorf(docindex.EINVALID, "%s is not under %s", filePath, basePath)
	}

	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, docindex.Errorf(docindex.ENOTFOUND, "file not found: %s", rel)
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	meta, body, err := ParseFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	title := meta.Title
	if title == "" {
		title = docindex.TitleFromFilename(rel)
	}

	return &docindex.Document{
		Path:        rel,
		Title:       title,
		Description: meta.Description,
		Section:     docindex.DeriveSection(rel),
		URL:         docindex.DeriveURL(p.BaseURL, rel),
		Content:     docindex.CleanContent(body),
	}, nil
}

var (
	bom       = []byte("\xef\xbb\xbf")
	delimiter = []byte("---")
)

// ParseFrontmatter splits a leading YAML block delimited by "---" lines from
// the body and decodes the known metadata fields. Data without an opening
// delimiter, or without a closing one, has no metadata and is all body.
// Returns EINVALID for invalid UTF-8 or YAML that is not a mapping.
func ParseFrontmatter(data []byte) (docindex.DocumentMetadata, string, error) {
	var meta docindex.DocumentMetadata

	if !utf8.Valid(data) {
		return meta, "", docindex.Errorf(docindex.EINVALID, "content is not valid UTF-8")
	}

	data = bytes.TrimPrefix(data, bom)
	front, body, ok := splitFrontmatter(data)
	if !ok {
		return meta, string(data), nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return meta, "", docindex.Errorf(docindex.EINVALID, "malformed frontmatter: %v", err)
	}

	meta.Title = stringField(fields, "title")
	meta.Description = stringField(fields, "description")
	meta.License = stringField(fields, "license")
	return meta, string(body), nil
}

// splitFrontmatter returns the YAML block and the body following it.
func splitFrontmatter(data []byte) (front, body []byte, ok bool) {
	first, rest, found := cutLine(data)
	if !found || !isDelimiter(first) {
		return nil, nil, false
	}

	start := len(data) - len(rest)
	for offset := start; offset < len(data); {
		line, next, _ := cutLine(data[offset:])
		if isDelimiter(line) {
			return data[start:offset], next, true
		}
		offset = len(data) - len(next)
	}
	return nil, nil, false
}

// cutLine splits data after the first newline. The returned line excludes
// the line terminator.
func cutLine(data []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(data, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t"), delimiter)
}

// stringField returns fields[key] if it is a string, otherwise "".
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}
