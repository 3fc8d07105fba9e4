package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so a retried write is not applied twice
type IdempotencyStore interface {
	// MarkProcessed records the key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets a key, used when the guarded operation failed
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
