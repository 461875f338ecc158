package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

// In-memory fallbacks used when no Redis address is configured and in tests.

type MemoryProjectionCache struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]entity.Profile
}

func NewMemoryProjectionCache() *MemoryProjectionCache {
	return &MemoryProjectionCache{
		profiles: make(map[uuid.UUID]entity.Profile),
	}
}

func (c *MemoryProjectionCache) Get(ctx context.Context, id uuid.UUID) (*entity.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	profile, ok := c.profiles[id]
	if !ok {
		return nil, false
	}
	return &profile, true
}

func (c *MemoryProjectionCache) Set(ctx context.Context, profile *entity.Profile) {
	if profile == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[profile.ID] = *profile
}

func (c *MemoryProjectionCache) Del(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, id)
}

type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
	}
}

func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = until
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	until, ok := s.revoked[tokenID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		// Token would have expired on its own anyway.
		s.mu.Lock()
		delete(s.revoked, tokenID)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
