package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/docindex"
)

// Tool names.
const (
	SearchToolName = "search_documentation"
	ReadToolName   = "read_documentation"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query   string `json:"query" jsonschema:"search terms; stemmed, so stream also matches streaming and streams"`
	Section string `json:"section,omitempty" jsonschema:"restrict results to one section such as sql-ref, api, streaming or mllib"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 10, max 50)"`
}

// ReadInput is the input schema for the read tool.
type ReadInput struct {
	Path string `json:"path" jsonschema:"relative path of the page as returned in search results, e.g. sql-ref/sql-syntax.md"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        SearchToolName,
		Description: "Search the documentation by keyword query. Returns title, URL, path, snippet and relevance score for each match.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ReadToolName,
		Description: "Read the full content of a documentation page by the path returned in search results.",
	}, s.handleRead)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	docindex.SearchResponse,
	error,
) {
	opts := docindex.SearchOptions{
		Section: input.Section,
		Limit:   docindex.ClampLimit(input.Limit),
	}

	results, err := s.search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, docindex.SearchResponse{}, s.failure(ctx, SearchToolName, err)
	}

	return nil, *docindex.NewSearchResponse(input.Query, input.Section, results), nil
}

func (s *Server) handleRead(ctx context.Context, _ *mcp.CallToolRequest, input ReadInput) (
	*mcp.CallToolResult,
	docindex.ReadResponse,
	error,
) {
	doc, err := s.documents.FindDocumentByPath(ctx, input.Path)
	if docindex.ErrorCode(err) == docindex.ENOTFOUND {
		return nil, *docindex.NewNotFoundResponse(input.Path), nil
	} else if err != nil {
		return nil, docindex.ReadResponse{}, s.failure(ctx, ReadToolName, err)
	}

	return nil, *docindex.NewReadResponse(doc), nil
}
