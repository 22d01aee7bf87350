package attachment

import (
	"context"
	"sync"
)

// InMemoryStore mirrors PostgresStore semantics for unit tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	attachments map[int64][]Attachment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, attachments: make(map[int64][]Attachment)}
}

func (s *InMemoryStore) Add(_ context.Context, att Attachment) (*Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	att.ID = s.nextID
	s.nextID++
	s.attachments[att.ComplaintID] = append(s.attachments[att.ComplaintID], att)
	cp := att
	return &cp, nil
}

func (s *InMemoryStore) ListByComplaint(_ context.Context, complaintID int64) ([]Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Attachment{}, s.attachments[complaintID]...), nil
}
