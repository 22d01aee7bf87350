package lookup

import (
	"context"

	dErrors "careline/pkg/domainerrors"
)

// Store is the read contract for the intake catalog.
type Store interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	ListComplaintTypes(ctx context.Context) ([]ComplaintType, error)
	ListSubTypes(ctx context.Context, complaintTypeID int64) ([]SubType, error)
}

// Service is a thin pass-through that owns input validation.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) ComplaintTypes(ctx context.Context) ([]ComplaintType, error) {
	return s.store.ListComplaintTypes(ctx)
}

func (s *Service) SubTypes(ctx context.Context, complaintTypeID int64) ([]SubType, error) {
	if complaintTypeID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "complaint type id is required")
	}
	return s.store.ListSubTypes(ctx, complaintTypeID)
}
