package history

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore mirrors PostgresStore semantics for unit tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64][]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, entries: make(map[int64][]Entry)}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	s.entries[entry.ComplaintID] = append(s.entries[entry.ComplaintID], entry)
	return nil
}

func (s *InMemoryStore) ListByComplaint(_ context.Context, complaintID int64) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Entry{}, s.entries[complaintID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}
