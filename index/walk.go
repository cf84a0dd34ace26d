package index

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/fwojciec/docindex"
)

// markdownFiles returns every markdown file below dir in lexical order of
// relative path. Version control directories are skipped.
func markdownFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return nil, docindex.Errorf(docindex.ENOTFOUND, "documentation directory not found: %s", dir)
	} else if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if docindex.IsMarkdown(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return relPath(dir, files[i]) < relPath(dir, files[j])
	})
	return files, nil
}

// relPath returns file relative to dir with forward slashes.
func relPath(dir, file string) string {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}
