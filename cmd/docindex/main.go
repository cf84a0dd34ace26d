package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/fs"
	"github.com/fwojciec/docindex/git"
	"github.com/fwojciec/docindex/markdown"
	docslog "github.com/fwojciec/docindex/slog"
	"github.com/fwojciec/docindex/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	// Run reports errors on stderr itself.
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Transport overrides stdio for the serve command. Used by tests.
	Transport sdkmcp.Transport

	// Git runs git for the index command. Nil uses the git binary.
	Git git.RunFunc

	store *store
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// commandError is an error a command has already printed.
type commandError struct{ err error }

func (e *commandError) Error() string { return e.err.Error() }
func (e *commandError) Unwrap() error { return e.err }

// Run executes the CLI with the given arguments. Every error is printed once
// to stderr as "error: <message>" and returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	var cerr *commandError
	if errors.As(err, &cerr) {
		return cerr.err
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", docindex.ErrorMessage(err))
	}
	return err
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Transport: m.Transport,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docindex"),
		kong.Description("Index markdown documentation and search it from the terminal or over MCP."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{
			"base_url":  docindex.DefaultBaseURL,
			"repo":      git.DefaultRepoURL,
			"ref":       git.DefaultRef,
			"docs_path": git.DefaultDocsPath,
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return docindex.Errorf(docindex.EINVALID, "no command specified. Run 'docindex --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return docindex.Errorf(docindex.EINVALID, "%s", err)
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.DBPath = cli.DB
	if deps.DBPath == "" {
		deps.DBPath = defaultDBPath(cli.Backend)
	}
	deps.Parser = docslog.NewLoggingParser(markdown.NewParser(cli.BaseURL), deps.Logger)

	if cmd == "index" {
		deps.Source = docslog.NewLoggingSource(m.source(&cli.Index), deps.Logger)

		if cli.Index.Swap {
			if cli.Backend != backendSQLite {
				return docindex.Errorf(docindex.EINVALID, "--swap requires the sqlite backend")
			}
			if !cli.Index.Rebuild {
				return docindex.Errorf(docindex.EINVALID, "--swap requires --rebuild")
			}
			dbPath := deps.DBPath
			deps.NewSnapshot = func() (*sqlite.Snapshot, error) {
				return sqlite.NewSnapshot(dbPath)
			}
			return runCommand(kongCtx, deps)
		}
	}

	if cmd == "stats" {
		ok, err := storeExists(cli.Backend, deps.DBPath)
		if err != nil {
			return err
		}
		if !ok {
			return docindex.Errorf(docindex.ENOTFOUND, "index not found at %s. Run 'docindex index' first", deps.DBPath)
		}
	}

	m.store, err = openStore(cli.Backend, deps.DBPath)
	if err != nil {
		deps.Logger.Error("open database", "path", deps.DBPath, "error", err)
		fmt.Fprintf(stderr, "Hint: Set DOCINDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", deps.DBPath, err)
	}
	defer m.Close()

	deps.Documents = docslog.NewLoggingDocumentService(m.store.documents, deps.Logger)
	deps.Search = docslog.NewLoggingSearchService(m.store.search, deps.Logger)

	return runCommand(kongCtx, deps)
}

// runCommand runs the selected command, which prints its own errors.
func runCommand(kongCtx *kong.Context, deps *Dependencies) error {
	if err := kongCtx.Run(deps); err != nil {
		return &commandError{err: err}
	}
	return nil
}

// source selects the documentation source for the index command.
func (m *Main) source(c *IndexCmd) docindex.Source {
	if c.Path != "" {
		return fs.NewSource(c.Path)
	}
	return &git.Source{
		RepoURL:  c.Repo,
		DocsPath: c.DocsPath,
		Shallow:  !c.Full,
		Run:      m.Git,
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath(backend string) string {
	name := "docindex.db"
	if backend == backendBleve {
		name = "docindex.bleve"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".docindex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}
