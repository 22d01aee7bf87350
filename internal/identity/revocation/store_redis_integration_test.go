//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careline/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client, time.Minute)

	t.Run("unknown jti is not revoked", func(t *testing.T) {
		revoked, err := store.IsTokenRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revoked jti is reported until the ttl expires", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-123"))

		revoked, err := store.IsTokenRevoked(ctx, "jti-123")
		require.NoError(t, err)
		assert.True(t, revoked)

		ttl, err := rc.Client.TTL(ctx, "careline:revoked:jti-123").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}
