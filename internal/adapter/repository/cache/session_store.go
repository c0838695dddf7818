package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore implements auth.SessionStore with one expiring key per token ID.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}

func (s *SessionStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(tokenID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists session: %w", err)
	}
	return n == 1, nil
}

// Delete removes the session and reports whether it was still there.
func (s *SessionStore) Delete(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Del(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del session: %w", err)
	}
	return n > 0, nil
}
