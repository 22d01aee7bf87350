package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"careline/internal/complaint/models"
	"careline/internal/patient"
	"careline/pkg/platform/sentinel"
)

// InMemoryStore mirrors PostgresStore semantics, including the scope and
// filter composition, so the service can be unit tested without a database.
type InMemoryStore struct {
	mu         sync.RWMutex
	nextID     int64
	complaints map[int64]*models.Complaint

	patients    patient.Store
	departments map[int64]string
	types       map[int64]string
	subTypes    map[int64]string
	employees   map[int64]string
}

func NewInMemoryStore(patients patient.Store) *InMemoryStore {
	return &InMemoryStore{
		nextID:      1,
		complaints:  make(map[int64]*models.Complaint),
		patients:    patients,
		departments: make(map[int64]string),
		types:       make(map[int64]string),
		subTypes:    make(map[int64]string),
		employees:   make(map[int64]string),
	}
}

func (s *InMemoryStore) SeedDepartment(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departments[id] = name
}

func (s *InMemoryStore) SeedComplaintType(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[id] = name
}

func (s *InMemoryStore) SeedSubType(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subTypes[id] = name
}

func (s *InMemoryStore) SeedEmployee(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[id] = name
}

func (s *InMemoryStore) Create(_ context.Context, c *models.Complaint) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID
	s.nextID++
	cp := *c
	s.complaints[c.ID] = &cp
	return c, nil
}

func (s *InMemoryStore) GetStatus(_ context.Context, complaintID int64) (models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.complaints[complaintID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return c.CurrentStatus, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, complaintID int64, status models.Status, resolutionDetails *string, resolutionDate *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[complaintID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.CurrentStatus = status
	if resolutionDetails != nil {
		c.ResolutionDetails = resolutionDetails
	}
	if resolutionDate != nil {
		c.ResolutionDate = resolutionDate
	}
	return nil
}

func (s *InMemoryStore) GetDetail(ctx context.Context, complaintID int64) (*models.Detail, error) {
	s.mu.RLock()
	c, ok := s.complaints[complaintID]
	if !ok {
		s.mu.RUnlock()
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	s.mu.RUnlock()

	item, p, err := s.toListItem(ctx, &cp)
	if err != nil {
		return nil, err
	}
	return &models.Detail{
		ListItem:          item,
		Gender:            p.Gender,
		ResolutionDetails: cp.ResolutionDetails,
		ResolutionDate:    cp.ResolutionDate,
	}, nil
}

func (s *InMemoryStore) List(ctx context.Context, scope models.Scope, filter models.Filter) ([]models.ListItem, error) {
	if scope.Kind == models.ScopeNone {
		return []models.ListItem{}, nil
	}

	s.mu.RLock()
	candidates := make([]*models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		cp := *c
		candidates = append(candidates, &cp)
	}
	s.mu.RUnlock()

	items := []models.ListItem{}
	for _, c := range candidates {
		if scope.Kind == models.ScopeOwn && c.SubmittedBy != scope.EmployeeID {
			continue
		}
		item, _, err := s.toListItem(ctx, c)
		if err != nil {
			return nil, err
		}
		if !matches(item, filter) {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ComplaintDate.After(items[j].ComplaintDate)
	})
	if len(items) > models.ListLimit {
		items = items[:models.ListLimit]
	}
	return items, nil
}

func (s *InMemoryStore) ListByPatient(ctx context.Context, nationalID string) ([]models.PatientComplaint, error) {
	s.mu.RLock()
	candidates := make([]*models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		cp := *c
		candidates = append(candidates, &cp)
	}
	s.mu.RUnlock()

	var items []models.PatientComplaint
	for _, c := range candidates {
		item, p, err := s.toListItem(ctx, c)
		if err != nil {
			return nil, err
		}
		if p.NationalID != nationalID {
			continue
		}
		items = append(items, models.PatientComplaint{
			ListItem:          item,
			ResolutionDetails: c.ResolutionDetails,
			ResolutionDate:    c.ResolutionDate,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ComplaintDate.After(items[j].ComplaintDate)
	})
	return items, nil
}

func (s *InMemoryStore) CountByPatient(_ context.Context, patientID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, c := range s.complaints {
		if c.PatientID == patientID {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) toListItem(ctx context.Context, c *models.Complaint) (models.ListItem, *patient.Patient, error) {
	p, err := s.patients.FindByID(ctx, c.PatientID)
	if err != nil {
		return models.ListItem{}, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	item := models.ListItem{
		ID:                c.ID,
		ComplaintDate:     c.ComplaintDate,
		Details:           c.Details,
		CurrentStatus:     c.CurrentStatus,
		Priority:          c.Priority,
		PatientName:       p.FullName,
		NationalID:        p.NationalID,
		ContactNumber:     p.ContactNumber,
		DepartmentName:    s.departments[c.DepartmentID],
		ComplaintTypeName: s.types[c.ComplaintTypeID],
	}
	if c.SubTypeID != nil {
		if name, ok := s.subTypes[*c.SubTypeID]; ok {
			item.SubTypeName = &name
		}
	}
	if c.AssignedEmployee != nil {
		if name, ok := s.employees[*c.AssignedEmployee]; ok {
			item.EmployeeName = &name
		}
	}
	return item, p, nil
}

func matches(item models.ListItem, filter models.Filter) bool {
	if filter.Days > 0 {
		cutoff := time.Now().AddDate(0, 0, -filter.Days)
		if item.ComplaintDate.Before(cutoff) {
			return false
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		id := strconv.FormatInt(item.ID, 10)
		if !strings.Contains(id, search) &&
			!strings.Contains(item.PatientName, search) &&
			!strings.Contains(item.NationalID, search) {
			return false
		}
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		if item.CurrentStatus.String() != status {
			return false
		}
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		if !strings.Contains(item.DepartmentName, dept) {
			return false
		}
	}
	if typ := strings.TrimSpace(filter.ComplaintType); typ != "" {
		if !strings.Contains(item.ComplaintTypeName, typ) {
			return false
		}
	}
	return true
}

// NoopTxRunner satisfies the service's transaction contract for the in-memory
// stores, which commit each step immediately.
type NoopTxRunner struct{}

func (NoopTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
