package lookup

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore backs unit tests with a seedable catalog.
type InMemoryStore struct {
	mu          sync.RWMutex
	departments []Department
	types       []ComplaintType
	subTypes    []SubType
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) SeedDepartment(d Department) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments = append(s.departments, d)
}

func (s *InMemoryStore) SeedComplaintType(t ComplaintType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, t)
}

func (s *InMemoryStore) SeedSubType(st SubType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subTypes = append(s.subTypes, st)
}

func (s *InMemoryStore) ListDepartments(_ context.Context) ([]Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]Department{}, s.departments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) ListComplaintTypes(_ context.Context) ([]ComplaintType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]ComplaintType{}, s.types...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) ListSubTypes(_ context.Context, complaintTypeID int64) ([]SubType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SubType
	for _, st := range s.subTypes {
		if st.ComplaintTypeID == complaintTypeID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
