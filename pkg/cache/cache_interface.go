package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read-through cache layer.
// Implementations must report a miss as (false, nil), not an error,
// so callers can fall through to the database without branching on
// backend-specific sentinels.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// Returns found=false on a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON-marshalled) under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
