package main

import (
	"context"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DBPath    string
	Documents docindex.DocumentService
	Search    docindex.SearchService
	Parser    docindex.Parser
	Source    docindex.Source

	// NewSnapshot opens a replacement database for index --swap.
	NewSnapshot func() (*sqlite.Snapshot, error)

	// Transport for the MCP server. Nil serves over stdio.
	Transport sdkmcp.Transport
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"DOCINDEX_DB" help:"Database path (default ~/.docindex/docindex.db)"`
	Backend string `enum:"sqlite,bleve" default:"sqlite" env:"DOCINDEX_BACKEND" help:"Storage backend (sqlite or bleve)"`
	BaseURL string `name:"base-url" default:"${base_url}" env:"DOCINDEX_BASE_URL" help:"Base URL for document links"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Index  IndexCmd  `cmd:"" help:"Index documentation from a git repository or local directory"`
	Stats  StatsCmd  `cmd:"" help:"Show the number of indexed documents"`
	Search SearchCmd `cmd:"" help:"Search indexed documentation"`
	Read   ReadCmd   `cmd:"" help:"Print an indexed document"`
	Serve  ServeCmd  `cmd:"" help:"Run the MCP server over stdio"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Path        string `type:"path" help:"Index a local documentation directory instead of cloning"`
	Repo        string `default:"${repo}" env:"DOCINDEX_REPO" help:"Git repository to clone"`
	Branch      string `short:"b" default:"${ref}" help:"Git branch or tag to index"`
	DocsPath    string `name:"docs-path" default:"${docs_path}" help:"Documentation directory inside the repository"`
	Full        bool   `help:"Clone full history instead of a shallow sparse checkout"`
	Rebuild     bool   `help:"Clear the index before indexing"`
	Swap        bool   `help:"With --rebuild, build a new database and replace the live one when done"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent parse limit"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query   []string `arg:"" help:"Search terms"`
	Section string   `short:"s" help:"Restrict results to a section"`
	Limit   int      `short:"n" default:"10" help:"Maximum number of results (max 50)"`
	JSON    bool     `name:"json" help:"Print the response as JSON"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	Path string `arg:"" help:"Document path as shown in search results"`
	JSON bool   `name:"json" help:"Print the response as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Watch string `type:"path" help:"Reindex changed markdown files below this directory"`
}
