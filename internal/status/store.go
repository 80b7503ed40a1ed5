// internal/status/store.go
package status

import "sync/atomic"

// Store holds the latest published Snapshot. The monitor engine is the only
// writer; the HTTP layer reads it from any number of goroutines. Publishing
// swaps a pointer to a fully built snapshot, so readers never block on a
// cycle in progress and never see a half-written value.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store primed with the empty default snapshot.
func NewStore() *Store {
	s := &Store{}
	empty := Empty()
	s.current.Store(&empty)
	return s
}

// Publish replaces the stored snapshot wholesale.
func (s *Store) Publish(snap Snapshot) {
	s.current.Store(&snap)
}

// Read returns the latest published snapshot.
func (s *Store) Read() Snapshot {
	return *s.current.Load()
}
