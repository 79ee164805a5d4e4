package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "chat_session:"

// RedisStore persists sessions to redis with a TTL so idle sessions
// expire without an explicit sweep.
type RedisStore struct {
	redis       *redis.Client
	ttl         time.Duration
	maxSessions int
}

// NewRedisStore creates a redis-backed session store. maxSessions <= 0
// disables the cap. Returns nil when the client is nil so callers can
// fall back to the memory store.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration, maxSessions int) *RedisStore {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{redis: redisClient, ttl: ttl, maxSessions: maxSessions}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get retrieves a session by ID. Returns nil when absent.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("session: failed to load %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: failed to decode %s: %w", id, err)
	}
	return &s, nil
}

// Save persists the session and refreshes its TTL. New sessions count
// against the cap; the exists/count pair is not transactional, so the
// cap is a soft bound under concurrent saves.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if r.maxSessions > 0 {
		exists, err := r.redis.Exists(ctx, sessionKey(s.ID)).Result()
		if err != nil {
			return fmt.Errorf("session: failed to check %s: %w", s.ID, err)
		}
		if exists == 0 {
			n, err := r.Len(ctx)
			if err != nil {
				return err
			}
			if n >= r.maxSessions {
				return ErrStoreFull
			}
		}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal %s: %w", s.ID, err)
	}
	if err := r.redis.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: failed to persist %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes a session.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete %s: %w", id, err)
	}
	return nil
}

// Len counts tracked sessions by scanning the key prefix.
func (r *RedisStore) Len(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := r.redis.Scan(ctx, cursor, sessionKeyPrefix+"*", 500).Result()
		if err != nil {
			return 0, fmt.Errorf("session: scan failed: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// Sweep is a no-op for redis; the per-key TTL set on Save handles
// idle-session eviction.
func (r *RedisStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, nil
}
