package driven

import "context"

// CacheStore is the persistent backing of the in-memory comparison cache.
//
// Keys are stable content identities, never file paths, so entries survive
// re-renders of unchanged content at the same resolution. Values are opaque
// blobs (fingerprint bytes or serialised comparison results) with no
// versioning contract beyond "recompute on key mismatch".
//
// The store has an explicit lifecycle: opened at run start, closed at run
// end. It is never a process-wide singleton.
type CacheStore interface {
	// Get retrieves a cached blob. Returns domain.ErrNotFound on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores a blob. Writes for the same key are idempotent;
	// last-writer-wins is acceptable since content for a key is
	// deterministic.
	Put(ctx context.Context, key string, value []byte) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Path returns the backing location, for diagnostics.
	Path() string

	// Close flushes and releases the store.
	Close() error
}
