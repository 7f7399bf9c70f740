// Package cache provides a key/value store with per-entry TTL, backed either
// by an in-process map or by Redis with transparent in-process fallback.
package cache

import (
	"context"
	"time"
)

// Store is the capability the orchestrator depends on. Get returns the value
// and true on a fresh hit; misses and expired entries return false. Set
// overwrites any existing entry. Both must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
