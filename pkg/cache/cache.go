// Package cache provides pluggable byte caches for fetched inventory
// graphs.
//
// Three implementations are provided: [FileCache] for CLI usage,
// [RedisCache] for server deployments, and [NullCache] to disable caching.
// Keys are generated by a [Keyer] so that all consumers agree on the key
// space; values are opaque bytes (typically a marshaled graph).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTLs.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any backing resources.
	Close() error
}

// Keyer generates cache keys for the different cached artifact kinds.
type Keyer interface {
	// GraphKey generates a key for a fetched inventory neighborhood.
	GraphKey(resourceID string, depth int) string
}

// DefaultKeyer is the standard key generator. Resource IDs can contain
// characters that are unsafe as Redis keys or file names (slashes, ARN
// colons), so the identity is digested rather than embedded.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a fetched inventory neighborhood. The key
// covers both the resource and the traversal depth: the depth-1 and
// depth-2 neighborhoods of the same resource are distinct graphs.
func (k *DefaultKeyer) GraphKey(resourceID string, depth int) string {
	return "graph:" + digest(resourceID+"\x00"+strconv.Itoa(depth))
}

// digest returns the full 64-char hex SHA-256 of s. Truncating would
// invite collisions between the many near-identical resource IDs cloud
// inventories produce.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// NullCache
// =============================================================================

// NullCache reports every lookup as a miss and discards every write.
// Selecting it disables caching without a second code path in callers.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
