// Package fs provides local filesystem access to documentation trees.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/docindex"
)

// Ensure Source implements docindex.Source at compile time.
var _ docindex.Source = (*Source)(nil)

// Source serves a documentation tree that already exists on disk.
type Source struct {
	Dir string
}

// NewSource creates a Source for dir.
func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

// Open returns the directory as a tree. The ref is ignored and the tree
// needs no release.
func (s *Source) Open(ctx context.Context, ref string) (*docindex.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, docindex.Errorf(docindex.ENOTFOUND, "documentation directory not found: %s", s.Dir)
	} else if err != nil {
		return nil, err
	}

	return &docindex.Tree{Dir: dir}, nil
}
