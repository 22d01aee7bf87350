package patient

import (
	"context"
	"strings"

	dErrors "careline/pkg/domainerrors"
)

// Store is interface-driven so the resolver can be exercised against the
// in-memory implementation in tests.
type Store interface {
	FindByID(ctx context.Context, id int64) (*Patient, error)
	FindByNationalID(ctx context.Context, nationalID string) (*Patient, error)
	CreateIfAbsent(ctx context.Context, nationalID string, demo Demographics) (*Patient, error)
}

// Resolver maps a national identifier to exactly one internal patient record,
// creating it on first sight.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the patient for nationalID, creating one from demo when the
// identifier is new. Demographics on later submissions are ignored - identity
// is first-write-wins.
func (r *Resolver) Resolve(ctx context.Context, nationalID string, demo Demographics) (*Patient, error) {
	nationalID = strings.TrimSpace(nationalID)
	if err := ValidateNationalID(nationalID); err != nil {
		return nil, err
	}
	return r.store.CreateIfAbsent(ctx, nationalID, demo)
}

// ValidateNationalID rejects empty or non-numeric identifiers. Length is not
// constrained here; ID and Iqama numbers differ across issuing authorities.
func ValidateNationalID(nationalID string) error {
	if nationalID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "national id is required")
	}
	for _, r := range nationalID {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeBadRequest, "national id must be numeric")
		}
	}
	return nil
}
