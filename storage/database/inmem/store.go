// Package inmem is an in-memory implementation of the document store used by tests and the
// "memory" DB driver. Documents are stored as BSON-normalised maps so the same filters, updates
// and struct tags work as they do against MongoDB.
package inmem

import (
	"context"
	"sync"

	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type Store struct {
	mu          sync.Mutex
	collections map[string]*collection
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) collection(name string) *collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		coll = &collection{name: name}
		s.collections[name] = coll
	}
	return coll
}

func (s *Store) Collection(name string) database.Collection {
	return s.collection(name)
}

// EnsureIndexes registers the unique indexes of database.Indexes. Non-unique indexes are no-ops.
func (s *Store) EnsureIndexes(_ context.Context) error {
	for _, idx := range database.Indexes {
		if !idx.Unique {
			continue
		}
		coll := s.collection(idx.Collection)
		coll.mu.Lock()
		coll.indexes = append(coll.indexes, idx)
		coll.mu.Unlock()
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

// Reset drops every document, keeping the registered indexes.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, coll := range s.collections {
		coll.mu.Lock()
		coll.docs = nil
		coll.mu.Unlock()
	}
}
