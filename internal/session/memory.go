package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements an in-memory session store
type MemoryStore struct {
	entries     map[string]*Entry
	mutex       sync.RWMutex
	duration    time.Duration
	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// NewMemoryStore creates a new in-memory session store with the given TTL
func NewMemoryStore(duration time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries:     make(map[string]*Entry),
		duration:    duration,
		stopCleanup: make(chan struct{}),
	}

	// Start cleanup goroutine
	go store.cleanup()

	return store
}

// Get retrieves an entry, treating expired entries as absent
func (s *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	s.mutex.RLock()
	entry, exists := s.entries[key]
	s.mutex.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	now := time.Now()
	if now.After(entry.ExpiresAt) {
		s.mutex.Lock()
		// Double-check after acquiring write lock
		if entry, exists := s.entries[key]; exists && now.After(entry.ExpiresAt) {
			delete(s.entries, key)
		}
		s.mutex.Unlock()
		return nil, ErrNotFound
	}

	// Copy so callers can't mutate the stored entry
	copied := *entry
	return &copied, nil
}

// Set stores an entry under key, overwriting any previous entry
func (s *MemoryStore) Set(ctx context.Context, key string, entry *Entry) error {
	now := time.Now()
	stored := *entry
	stored.Key = key
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.ExpiresAt = now.Add(s.duration)

	s.mutex.Lock()
	s.entries[key] = &stored
	s.mutex.Unlock()

	return nil
}

// Delete removes an entry
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	delete(s.entries, key)
	s.mutex.Unlock()
	return nil
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}

// cleanup periodically removes expired entries
func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mutex.Lock()
			for key, entry := range s.entries {
				if now.After(entry.ExpiresAt) {
					delete(s.entries, key)
				}
			}
			s.mutex.Unlock()
		case <-s.stopCleanup:
			return
		}
	}
}
