package mock

import "github.com/fwojciec/docindex"

var _ docindex.Parser = (*Parser)(nil)

// Parser is a mock implementation of docindex.Parser.
type Parser struct {
	ParseFileFn func(filePath, basePath string) (*docindex.Document, error)
}

func (p *Parser) ParseFile(filePath, basePath string) (*docindex.Document, error) {
	return p.ParseFileFn(filePath, basePath)
}
