package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedSessionPrefix = "session:revoked:"

// SessionStore keeps revoked session ids in Redis with the token's remaining lifetime as TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedSessionPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedSessionPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// MemorySessionStore is the single-instance fallback used when Redis is absent.
type MemorySessionStore struct {
	revoked sync.Map // tokenID -> expiry time.Time
	now     func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{now: time.Now}
}

func (s *MemorySessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.revoked.Store(tokenID, s.now().Add(ttl))
	s.sweep()
	return nil
}

func (s *MemorySessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	v, ok := s.revoked.Load(tokenID)
	if !ok {
		return false, nil
	}
	if s.now().After(v.(time.Time)) {
		s.revoked.Delete(tokenID)
		return false, nil
	}
	return true, nil
}

// sweep drops entries whose token would have expired anyway.
func (s *MemorySessionStore) sweep() {
	now := s.now()
	s.revoked.Range(func(key, value any) bool {
		if now.After(value.(time.Time)) {
			s.revoked.Delete(key)
		}
		return true
	})
}
