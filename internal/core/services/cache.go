package services

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pagediff-cli/internal/logger"
)

// cacheShards is the number of independently locked map buckets.
// Sharding keeps writers for distinct keys from blocking each other's
// readers across parallel workers.
const cacheShards = 32

// ComparisonCache memoises fingerprints and comparison payloads keyed by
// stable content identity. It is an unbounded in-memory front for one run,
// optionally write-through to a persistent driven.CacheStore.
//
// Store failures are downgraded to misses and logged; they never fail the
// caller.
type ComparisonCache struct {
	store  driven.CacheStore // may be nil
	shards [cacheShards]cacheShard
}

type cacheShard struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewComparisonCache creates a cache backed by store. A nil store yields a
// purely in-memory cache discarded at run end.
func NewComparisonCache(store driven.CacheStore) *ComparisonCache {
	c := &ComparisonCache{store: store}
	for i := range c.shards {
		c.shards[i].m = make(map[string][]byte)
	}
	return c
}

func (c *ComparisonCache) shard(key string) *cacheShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &c.shards[h.Sum32()%cacheShards]
}

// Get returns the cached blob for key, consulting the memory front first
// and falling back to the persistent store.
func (c *ComparisonCache) Get(ctx context.Context, key string) ([]byte, bool) {
	s := c.shard(key)
	s.mu.RLock()
	value, ok := s.m[key]
	s.mu.RUnlock()
	if ok {
		return value, true
	}

	if c.store == nil {
		return nil, false
	}
	value, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("cache read for %s failed, recomputing: %v", key, err)
		}
		return nil, false
	}

	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return value, true
}

// Put stores a blob in the memory front and writes it through to the
// persistent store. Last-writer-wins for concurrent puts of the same key;
// content for a given key is deterministic, so either write is valid.
func (c *ComparisonCache) Put(ctx context.Context, key string, value []byte) {
	s := c.shard(key)
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, key, value); err != nil {
		logger.Warn("cache write for %s failed: %v", key, err)
	}
}

// Len returns the number of entries in the memory front.
func (c *ComparisonCache) Len() int {
	n := 0
	for i := range c.shards {
		c.shards[i].mu.RLock()
		n += len(c.shards[i].m)
		c.shards[i].mu.RUnlock()
	}
	return n
}
