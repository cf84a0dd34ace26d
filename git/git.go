// Package git provides a documentation source backed by a git checkout.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fwojciec/docindex"
)

// Defaults for the Apache Spark documentation.
const (
	DefaultRepoURL  = "https://github.com/apache/spark.git"
	DefaultRef      = "master"
	DefaultDocsPath = "docs"
)

// Ensure Source implements docindex.Source at compile time.
var _ docindex.Source = (*Source)(nil)

// RunFunc runs git with args and returns its combined error output on failure.
type RunFunc func(ctx context.Context, args ...string) error

// Source clones a repository into a temporary directory and serves its
// documentation directory. A shallow source fetches a single revision and
// checks out only DocsPath.
type Source struct {
	RepoURL  string
	DocsPath string
	Shallow  bool

	// Run executes git. Defaults to the git binary on PATH.
	Run RunFunc

	// TempDir is the parent of checkouts. Defaults to os.TempDir.
	TempDir string
}

// NewSource creates a shallow Source for repoURL using the defaults.
func NewSource(repoURL string) *Source {
	if repoURL == "" {
		repoURL = DefaultRepoURL
	}
	return &Source{
		RepoURL:  repoURL,
		DocsPath: DefaultDocsPath,
		Shallow:  true,
	}
}

// Open clones ref and returns the documentation directory of the checkout.
// Releasing the tree removes the checkout. Clone failures are EUNAVAILABLE.
func (s *Source) Open(ctx context.Context, ref string) (*docindex.Tree, error) {
	if ref == "" {
		ref = DefaultRef
	}
	docsPath := s.DocsPath
	if docsPath == "" {
		docsPath = DefaultDocsPath
	}
	run := s.Run
	if run == nil {
		run = execGit
	}

	tmp, err := os.MkdirTemp(s.TempDir, "docindex-git-")
	if err != nil {
		return nil, fmt.Errorf("create checkout directory: %w", err)
	}
	release := func() error { return os.RemoveAll(tmp) }

	target := filepath.Join(tmp, "repo")

	args := []string{"clone"}
	if s.Shallow {
		args = append(args, "--depth", "1", "--filter=blob:none", "--sparse")
	}
	args = append(args, "--branch", ref, s.RepoURL, target)

	if err := run(ctx, args...); err != nil {
		_ = release()
		return nil, docindex.Errorf(docindex.EUNAVAILABLE, "clone %s@%s: %v", s.RepoURL, ref, err)
	}

	if s.Shallow {
		if err := run(ctx, "-C", target, "sparse-checkout", "set", docsPath); err != nil {
			_ = release()
			return nil, docindex.Errorf(docindex.EUNAVAILABLE, "sparse checkout %s: %v", docsPath, err)
		}
	}

	return &docindex.Tree{
		Dir:     filepath.Join(target, filepath.FromSlash(docsPath)),
		Release: release,
	}, nil
}

// execGit runs the git binary, attaching its stderr to any error.
func execGit(ctx context.Context, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
