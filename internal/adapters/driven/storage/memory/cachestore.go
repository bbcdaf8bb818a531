package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// Ensure CacheStore implements the interface.
var _ driven.CacheStore = (*CacheStore)(nil)

// CacheStore is an in-memory implementation of driven.CacheStore for testing.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewCacheStore creates a new in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[string][]byte),
	}
}

// Get retrieves a cached blob by key.
func (s *CacheStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: cache entry %s", domain.ErrNotFound, key)
	}
	return value, nil
}

// Put stores a blob, replacing any previous value for the key.
func (s *CacheStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Clear removes all entries.
func (s *CacheStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
	return nil
}

// Path returns the backing location.
func (s *CacheStore) Path() string {
	return ":memory:"
}

// Close releases the store (no-op for memory store).
func (s *CacheStore) Close() error {
	return nil
}

// Len returns the number of entries, for test assertions.
func (s *CacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
