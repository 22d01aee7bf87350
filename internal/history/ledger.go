package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"careline/internal/platform/metrics"
	"careline/pkg/platform/sentinel"
)

// Store is the persistence contract for ledger entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByComplaint(ctx context.Context, complaintID int64) ([]Entry, error)
}

// Ledger wraps a Store with the optional-schema policy: when the relation is
// absent the ledger reports empty history and drops appends with a warning,
// and the caller is never told.
type Ledger struct {
	store   Store
	enabled bool
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewLedger(store Store, enabled bool, logger *slog.Logger, m *metrics.Metrics) *Ledger {
	return &Ledger{store: store, enabled: enabled, logger: logger, metrics: m}
}

// Enabled reports whether the backing relation exists. The lifecycle engine
// uses this to keep ledger writes out of transactions that must not abort on
// a missing relation.
func (l *Ledger) Enabled() bool { return l.enabled }

// Append records a lifecycle event. Returns nil when the schema is absent.
func (l *Ledger) Append(ctx context.Context, entry Entry) error {
	if !l.enabled {
		l.degrade(ctx, entry.ComplaintID, nil)
		return nil
	}
	if err := l.store.Append(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrSchemaMissing) {
			l.degrade(ctx, entry.ComplaintID, err)
			return nil
		}
		return fmt.Errorf("ledger append: %w", err)
	}
	return nil
}

// ListByComplaint returns history newest-first, or an empty slice when the
// schema is absent.
func (l *Ledger) ListByComplaint(ctx context.Context, complaintID int64) ([]Entry, error) {
	if !l.enabled {
		return []Entry{}, nil
	}
	entries, err := l.store.ListByComplaint(ctx, complaintID)
	if err != nil {
		if errors.Is(err, sentinel.ErrSchemaMissing) {
			l.degrade(ctx, complaintID, err)
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("ledger list: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (l *Ledger) degrade(ctx context.Context, complaintID int64, err error) {
	l.metrics.IncDegraded("history")
	l.logger.WarnContext(ctx, "history relation unavailable, continuing without ledger",
		"complaint_id", complaintID,
		"error", err,
	)
}
