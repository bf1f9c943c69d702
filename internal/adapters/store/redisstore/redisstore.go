// Package redisstore implements ports.KeyValueStore on Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// Store is a Redis-backed key-value store.
type Store struct {
	client redis.UniversalClient
}

// New wraps an existing client. The caller owns the client's lifecycle.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get returns domain.ErrNotFound for missing or expired keys.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.NewNotFoundError("key", key)
		}

		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return val, nil
}

// Set stores value. A zero ttl keeps the key until deleted.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "redis" }

// Check pings the server.
func (s *Store) Check(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
