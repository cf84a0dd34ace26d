package main

import (
	"github.com/fwojciec/docindex"
	"github.com/fwojciec/docindex/bleve"
	"github.com/fwojciec/docindex/sqlite"
)

// Storage backends.
const (
	backendSQLite = "sqlite"
	backendBleve  = "bleve"
)

// store holds the services of an opened backend.
type store struct {
	documents docindex.DocumentService
	search    docindex.SearchService
	close     func() error
}

// Close releases the backend.
func (s *store) Close() error {
	return s.close()
}

func openStore(backend, path string) (*store, error) {
	switch backend {
	case backendSQLite:
		db := sqlite.NewDB(path)
		if err := db.Open(); err != nil {
			return nil, err
		}
		return &store{
			documents: sqlite.NewDocumentService(db),
			search:    sqlite.NewSearchService(db),
			close:     db.Close,
		}, nil

	case backendBleve:
		idx, err := bleve.Open(path)
		if err != nil {
			return nil, err
		}
		return &store{documents: idx, search: idx, close: idx.Close}, nil

	default:
		return nil, docindex.Errorf(docindex.EINVALID, "unknown backend: %s", backend)
	}
}

func storeExists(backend, path string) (bool, error) {
	if backend == backendBleve {
		return bleve.Exists(path)
	}
	return sqlite.Exists(path)
}
