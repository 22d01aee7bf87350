package patient

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "careline/pkg/domainerrors"
)

func TestResolver(t *testing.T) {
	ctx := context.Background()
	resolver := NewResolver(NewInMemoryStore())

	t.Run("creates patient on first sight", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, "1234567890", Demographics{
			FullName:      "Sara Ahmed",
			ContactNumber: "0501234567",
			Gender:        "F",
		})
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		assert.Equal(t, "Sara Ahmed", p.FullName)
	})

	t.Run("second resolve with differing demographics keeps first write", func(t *testing.T) {
		first, err := resolver.Resolve(ctx, "9998887776", Demographics{FullName: "Original Name", Gender: "M"})
		require.NoError(t, err)

		second, err := resolver.Resolve(ctx, "9998887776", Demographics{FullName: "Different Name", Gender: "F"})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID, "identity must be stable")
		assert.Equal(t, "Original Name", second.FullName, "demographics are first-write-wins")
		assert.Equal(t, "M", second.Gender)
	})

	t.Run("empty national id is a validation error", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "  ", Demographics{})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("non-numeric national id is a validation error", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "12AB56", Demographics{})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})
}

func TestResolverConcurrentSameID(t *testing.T) {
	ctx := context.Background()
	resolver := NewResolver(NewInMemoryStore())

	const goroutines = 50
	ids := make([]int64, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(n int) {
			defer wg.Done()
			p, err := resolver.Resolve(ctx, "5554443332", Demographics{FullName: "Race Case"})
			if err != nil {
				t.Error(err)
				return
			}
			ids[n] = p.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id, "concurrent submissions for a new id must converge on one patient")
	}
}
