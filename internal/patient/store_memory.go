package patient

import (
	"context"
	"sync"

	"careline/pkg/platform/sentinel"
)

// InMemoryStore mirrors PostgresStore semantics for unit tests.
type InMemoryStore struct {
	mu     sync.Mutex
	nextID int64
	byNID  map[string]*Patient
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, byNID: make(map[string]*Patient)}
}

func (s *InMemoryStore) FindByID(_ context.Context, id int64) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byNID {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByNationalID(_ context.Context, nationalID string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byNID[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, nationalID string, demo Demographics) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byNID[nationalID]; ok {
		cp := *p
		return &cp, nil
	}
	p := &Patient{
		ID:            s.nextID,
		FullName:      demo.FullName,
		NationalID:    nationalID,
		ContactNumber: demo.ContactNumber,
		Gender:        demo.Gender,
	}
	s.nextID++
	s.byNID[nationalID] = p
	cp := *p
	return &cp, nil
}
