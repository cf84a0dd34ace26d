package docindex

// Parser converts one markdown file into a Document.
type Parser interface {
	// ParseFile reads filePath and builds a document whose path is relative
	// to basePath. Any failure, including a missing file or malformed
	// frontmatter, is returned as an error; no partial document is returned.
	ParseFile(filePath, basePath string) (*Document, error)
}
