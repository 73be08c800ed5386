package graph

import (
	"context"
	"sync"
)

// TripleStore is an in-memory QueryPort backed by a flat triple list.
// Reads are guarded by an RWMutex so concurrent agent runs can share one
// store while triples are loaded.
type TripleStore struct {
	mu      sync.RWMutex
	triples []Triple
}

// NewTripleStore creates an empty TripleStore.
func NewTripleStore() *TripleStore {
	return &TripleStore{}
}

// Load appends triples to the store.
func (s *TripleStore) Load(triples ...Triple) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = append(s.triples, triples...)
}

// Len returns the number of triples loaded.
func (s *TripleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triples)
}

// Query returns all triples matching the pattern, in load order.
func (s *TripleStore) Query(ctx context.Context, pattern Pattern) ([]Triple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Triple
	for _, t := range s.triples {
		if pattern.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Compile-time check that TripleStore implements QueryPort.
var _ QueryPort = (*TripleStore)(nil)
