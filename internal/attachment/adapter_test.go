package attachment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careline/pkg/platform/sentinel"
)

type schemaMissingStore struct{}

func (schemaMissingStore) Add(context.Context, Attachment) (*Attachment, error) {
	return nil, sentinel.ErrSchemaMissing
}
func (schemaMissingStore) ListByComplaint(context.Context, int64) ([]Attachment, error) {
	return nil, sentinel.ErrSchemaMissing
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("records and lists metadata", func(t *testing.T) {
		adapter := NewAdapter(NewInMemoryStore(), true, discardLogger(), nil)

		stored, err := adapter.Record(ctx, Attachment{ComplaintID: 1, FileName: "xray.png", FileSize: 2048, MIMEType: "image/png"})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NotZero(t, stored.ID)

		atts, err := adapter.ListByComplaint(ctx, 1)
		require.NoError(t, err)
		require.Len(t, atts, 1)
		assert.Equal(t, "xray.png", atts[0].FileName)
	})

	t.Run("disabled adapter drops writes and reads empty", func(t *testing.T) {
		adapter := NewAdapter(NewInMemoryStore(), false, discardLogger(), nil)

		stored, err := adapter.Record(ctx, Attachment{ComplaintID: 1, FileName: "xray.png"})
		require.NoError(t, err)
		assert.Nil(t, stored)

		atts, err := adapter.ListByComplaint(ctx, 1)
		require.NoError(t, err)
		assert.NotNil(t, atts)
		assert.Empty(t, atts)
	})

	t.Run("missing relation degrades instead of failing", func(t *testing.T) {
		adapter := NewAdapter(schemaMissingStore{}, true, discardLogger(), nil)

		stored, err := adapter.Record(ctx, Attachment{ComplaintID: 1})
		require.NoError(t, err)
		assert.Nil(t, stored)

		atts, err := adapter.ListByComplaint(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, atts)
	})
}
