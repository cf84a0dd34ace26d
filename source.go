package docindex

import "context"

// Source makes a documentation tree available as a local directory.
type Source interface {
	// Open obtains the tree for ref (a branch, tag or other revision; sources
	// without revisions ignore it). Callers must Close the returned tree.
	// A failure to obtain the tree is distinct from a tree with no files.
	Open(ctx context.Context, ref string) (*Tree, error)
}

// Tree is a local directory holding documentation files.
type Tree struct {
	Dir string

	// Release frees resources held by the tree, such as a temporary
	// checkout. Nil for trees that need no cleanup.
	Release func() error
}

// Close releases the tree.
func (t *Tree) Close() error {
	if t == nil || t.Release == nil {
		return nil
	}
	return t.Release()
}
