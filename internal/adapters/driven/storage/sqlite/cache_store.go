package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
	"github.com/custodia-labs/pagediff-cli/internal/core/ports/driven"
)

// cacheStore implements driven.CacheStore.
type cacheStore struct {
	store *Store
}

var _ driven.CacheStore = (*cacheStore)(nil)

// Get retrieves a cached blob by key.
func (c *cacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	row := c.store.db.QueryRowContext(ctx,
		"SELECT value FROM cache_entries WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cache entry %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: reading cache entry: %v", domain.ErrCacheIO, err)
	}
	return value, nil
}

// Put stores a blob, replacing any previous value for the key.
func (c *cacheStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: writing cache entry: %v", domain.ErrCacheIO, err)
	}
	return nil
}

// Clear removes all cache entries.
func (c *cacheStore) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("%w: clearing cache: %v", domain.ErrCacheIO, err)
	}
	return nil
}

// Path returns the backing database file path.
func (c *cacheStore) Path() string {
	return c.store.path
}

// Close is a no-op; the lifecycle belongs to the parent Store.
func (c *cacheStore) Close() error {
	return nil
}
