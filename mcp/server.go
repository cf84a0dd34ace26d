// Package mcp exposes docindex search and read over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/docindex"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "docindex"
	Version = "0.1.0"
)

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("mcp: search and document services are required")

// Server is the MCP server for a documentation index.
type Server struct {
	search    docindex.SearchService
	documents docindex.DocumentService
	logger    *slog.Logger
	server    *mcp.Server
}

// NewServer creates a server with the search and read tools registered.
// A nil logger discards output.
func NewServer(search docindex.SearchService, documents docindex.DocumentService, logger *slog.Logger) (*Server, error) {
	if search == nil || documents == nil {
		return nil, ErrMissingService
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		search:    search,
		documents: documents,
		logger:    logger,
		server:    mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves a single session over t until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

// RunStdio serves over standard input and output.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// failure logs an unexpected error and returns the generic message callers
// see in its place.
func (s *Server) failure(ctx context.Context, tool string, err error) error {
	s.logger.ErrorContext(ctx, "tool failed", "tool", tool, "err", err)
	return errors.New(docindex.ErrorMessage(err))
}
