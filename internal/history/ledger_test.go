package history

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careline/pkg/platform/sentinel"
)

type schemaMissingStore struct{}

func (schemaMissingStore) Append(context.Context, Entry) error { return sentinel.ErrSchemaMissing }
func (schemaMissingStore) ListByComplaint(context.Context, int64) ([]Entry, error) {
	return nil, sentinel.ErrSchemaMissing
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("append and list newest first", func(t *testing.T) {
		ledger := NewLedger(NewInMemoryStore(), true, discardLogger(), nil)

		base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
		require.NoError(t, ledger.Append(ctx, Entry{ComplaintID: 1, Stage: StageSubmitted, NewStatus: "New", RecordedAt: base}))
		require.NoError(t, ledger.Append(ctx, Entry{ComplaintID: 1, Stage: StageStatusChange, OldStatus: "New", NewStatus: "UnderReview", RecordedAt: base.Add(time.Hour)}))

		entries, err := ledger.ListByComplaint(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "UnderReview", entries[0].NewStatus)
		assert.Equal(t, "New", entries[1].NewStatus)
	})

	t.Run("disabled ledger swallows appends and reads empty", func(t *testing.T) {
		ledger := NewLedger(NewInMemoryStore(), false, discardLogger(), nil)

		require.NoError(t, ledger.Append(ctx, Entry{ComplaintID: 1, Stage: StageSubmitted, NewStatus: "New"}))

		entries, err := ledger.ListByComplaint(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("missing relation degrades instead of failing", func(t *testing.T) {
		ledger := NewLedger(schemaMissingStore{}, true, discardLogger(), nil)

		require.NoError(t, ledger.Append(ctx, Entry{ComplaintID: 1}))

		entries, err := ledger.ListByComplaint(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
