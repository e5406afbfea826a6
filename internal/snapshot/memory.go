package snapshot

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests and single-node dev
// setups without Redis.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string]Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string]Snapshot)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, key string, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *snap
	copied.Answers = make(map[int64]int64, len(snap.Answers))
	for k, v := range snap.Answers {
		copied.Answers[k] = v
	}
	s.blobs[key] = copied
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, key string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	copied := snap
	copied.Answers = make(map[int64]int64, len(snap.Answers))
	for k, v := range snap.Answers {
		copied.Answers[k] = v
	}
	return &copied, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
