package attachment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"careline/internal/platform/metrics"
	"careline/pkg/platform/sentinel"
)

// Store is the persistence contract for attachment metadata.
type Store interface {
	Add(ctx context.Context, att Attachment) (*Attachment, error)
	ListByComplaint(ctx context.Context, complaintID int64) ([]Attachment, error)
}

// Adapter wraps a Store with the optional-schema policy: when the relation is
// absent, writes are dropped with a warning and reads report no attachments.
type Adapter struct {
	store   Store
	enabled bool
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewAdapter(store Store, enabled bool, logger *slog.Logger, m *metrics.Metrics) *Adapter {
	return &Adapter{store: store, enabled: enabled, logger: logger, metrics: m}
}

// Enabled reports whether the backing relation exists.
func (a *Adapter) Enabled() bool { return a.enabled }

// Record stores metadata for one staged file. Returns (nil, nil) when the
// schema is absent.
func (a *Adapter) Record(ctx context.Context, att Attachment) (*Attachment, error) {
	if !a.enabled {
		a.degrade(ctx, att.ComplaintID, nil)
		return nil, nil
	}
	stored, err := a.store.Add(ctx, att)
	if err != nil {
		if errors.Is(err, sentinel.ErrSchemaMissing) {
			a.degrade(ctx, att.ComplaintID, err)
			return nil, nil
		}
		return nil, fmt.Errorf("record attachment: %w", err)
	}
	return stored, nil
}

// ListByComplaint returns attachment metadata, or an empty slice when the
// schema is absent.
func (a *Adapter) ListByComplaint(ctx context.Context, complaintID int64) ([]Attachment, error) {
	if !a.enabled {
		return []Attachment{}, nil
	}
	atts, err := a.store.ListByComplaint(ctx, complaintID)
	if err != nil {
		if errors.Is(err, sentinel.ErrSchemaMissing) {
			a.degrade(ctx, complaintID, err)
			return []Attachment{}, nil
		}
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	if atts == nil {
		atts = []Attachment{}
	}
	return atts, nil
}

func (a *Adapter) degrade(ctx context.Context, complaintID int64, err error) {
	a.metrics.IncDegraded("attachments")
	a.logger.WarnContext(ctx, "attachment relation unavailable, continuing without attachments",
		"complaint_id", complaintID,
		"error", err,
	)
}
