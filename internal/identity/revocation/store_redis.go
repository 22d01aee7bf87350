// Package revocation tracks revoked token IDs so the auth middleware can
// reject tokens before their natural expiry. Redis-backed; deployments
// without Redis simply skip the check.
package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "careline:revoked:"

// RedisStore answers "is this jti revoked?" with a TTL equal to the token
// lifetime, so entries expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Revoke(ctx context.Context, jti string) error {
	if err := s.client.Set(ctx, keyPrefix+jti, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RedisStore) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}
