package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the store uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps the entry under a single Redis key. The key expires
// after twice the TTL so stale entries can still be reported by Info.
type RedisStore struct {
	client redisClient
	key    string
	expiry time.Duration
}

// NewRedisStore connects lazily to addr.
func NewRedisStore(addr, key string, ttl time.Duration) *RedisStore {
	return newRedisStore(redis.NewClient(&redis.Options{Addr: addr}), key, ttl)
}

func newRedisStore(client redisClient, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
		expiry: 2 * ttl,
	}
}

// Get reads the entry.
func (s *RedisStore) Get(ctx context.Context) (*Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}

		return nil, fmt.Errorf("failed to read cache key %s: %w", s.key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return &entry, nil
}

// Set writes the entry.
func (s *RedisStore) Set(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.expiry).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", s.key, err)
	}

	return nil
}

// Clear deletes the key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", s.key, err)
	}

	return nil
}
