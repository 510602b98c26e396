package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory. Suitable for
// single-instance deployments and tests; state is lost on restart and not
// shared across instances.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	tenantID  uuid.UUID
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{
		tenants: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetTenant persists the active tenant for a session
func (s *MemoryStore) SetTenant(_ context.Context, sessionID string, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenants[sessionID] = memoryEntry{
		tenantID:  tenantID,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Tenant returns the persisted tenant for a session
func (s *MemoryStore) Tenant(_ context.Context, sessionID string) (uuid.UUID, bool, error) {
	s.mu.RLock()
	entry, ok := s.tenants[sessionID]
	s.mu.RUnlock()

	if !ok {
		return uuid.Nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.tenants, sessionID)
		s.mu.Unlock()
		return uuid.Nil, false, nil
	}

	return entry.tenantID, true, nil
}

// ClearTenant removes the persisted tenant for a session
func (s *MemoryStore) ClearTenant(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tenants, sessionID)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
