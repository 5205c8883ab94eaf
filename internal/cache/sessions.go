package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStorage adapts a Redis client to fiber.Storage so the Fiber session
// middleware can persist server-side session state in Redis.
type SessionStorage struct {
	rdb *redis.Client
}

// NewSessionStorage returns a Redis-backed session storage. The client must
// be non-nil; callers fall back to the session middleware's default in-memory
// storage when Redis is unavailable.
func NewSessionStorage(rdb *redis.Client) (*SessionStorage, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	return &SessionStorage{rdb: rdb}, nil
}

// Get retrieves the session payload for the given key. A missing key returns
// (nil, nil) per the fiber.Storage contract.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	val, err := s.rdb.Get(context.Background(), sessionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores the session payload with the given expiration. A zero
// expiration stores the key without a TTL.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.rdb.Set(context.Background(), sessionKeyPrefix+key, val, exp).Err()
}

// Delete removes the session payload for the given key.
func (s *SessionStorage) Delete(key string) error {
	return s.rdb.Del(context.Background(), sessionKeyPrefix+key).Err()
}

// Reset removes all session payloads.
func (s *SessionStorage) Reset() error {
	ctx := context.Background()
	iter := s.rdb.Scan(ctx, 0, sessionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the Redis client is owned by the application.
func (s *SessionStorage) Close() error {
	return nil
}
