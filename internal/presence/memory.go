package presence

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no redis address is
// configured, and by tests. All methods are safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[uint]time.Time

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[uint]time.Time), Now: time.Now}
}

// Ensure interface compliance at compile time
var _ Store = (*MemoryStore)(nil)

// Touch records the current time for the user.
func (s *MemoryStore) Touch(ctx context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[userID] = s.Now()
	return nil
}

// SetLastSeen pins a user's last-seen time directly. Test helper.
func (s *MemoryStore) SetLastSeen(userID uint, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[userID] = at
}

// LastSeen returns the stored activity time, if any.
func (s *MemoryStore) LastSeen(ctx context.Context, userID uint) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.seen[userID]
	return at, ok, nil
}
