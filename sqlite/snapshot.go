package sqlite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Snapshot builds a replacement database next to a live one. Documents are
// written to path.tmp, which is renamed over path on Commit. Readers of the
// live database see the old contents until then.
type Snapshot struct {
	path string
	db   *DB
}

// NewSnapshot opens a fresh database at path.tmp, discarding any leftover
// from an earlier failed build.
func NewSnapshot(path string) (*Snapshot, error) {
	if path == MemoryPath {
		return nil, fmt.Errorf("snapshot requires a file database")
	}

	s := &Snapshot{path: path}
	if err := removeDatabase(s.tempPath()); err != nil {
		return nil, err
	}

	s.db = NewDB(s.tempPath())
	if err := s.db.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) tempPath() string {
	return s.path + ".tmp"
}

// DB returns the database under construction.
func (s *Snapshot) DB() *DB {
	return s.db
}

// Commit closes the new database and moves it over the live one.
func (s *Snapshot) Commit() error {
	// Closing the last connection checkpoints the WAL into the main file.
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	// A WAL left behind by the old database must not be replayed onto the new one.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := removeFile(s.path + suffix); err != nil {
			return err
		}
	}

	if err := os.Rename(s.tempPath(), s.path); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}

// Abort closes and removes the database under construction. The live
// database is untouched.
func (s *Snapshot) Abort() error {
	closeErr := s.db.Close()
	if err := removeDatabase(s.tempPath()); err != nil {
		return err
	}
	return closeErr
}

// removeDatabase deletes a database file and its WAL companions.
func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := removeFile(p); err != nil {
			return err
		}
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
