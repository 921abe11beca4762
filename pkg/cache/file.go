package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileCache persists fetched neighborhoods on disk so that repeated
// explore and export runs against the same resource skip the provider.
// Each entry is one JSON file under a two-level sharded directory; the
// shard prefix comes from the key digest, which keeps directories small
// even when a large inventory is walked resource by resource.
type FileCache struct {
	root string
}

// fileRecord is the on-disk envelope around a cached value. Expiry is
// stored as an absolute instant so a record written by one run can be
// judged by a later one.
type fileRecord struct {
	Payload   []byte    `json:"payload"`
	ExpiresAt time.Time `json:"expires_at"` // zero means no expiration
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	return &FileCache{root: dir}, nil
}

// entryPath maps a key to its file. Keys are digested so resource IDs
// with slashes or colons cannot escape the cache root.
func (c *FileCache) entryPath(key string) string {
	d := digest(key)
	return filepath.Join(c.root, d[:2], d+".json")
}

// Get retrieves a value. Expired and unreadable records are removed and
// reported as misses so a corrupt cache heals itself on the next fetch.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.entryPath(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !rec.ExpiresAt.IsZero() && time.Now().After(rec.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return rec.Payload, true, nil
}

// Set stores a value. A zero ttl stores without expiration.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	rec := fileRecord{Payload: data}
	if ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache shard: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.entryPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Close is a no-op; files are closed after each operation.
func (c *FileCache) Close() error {
	return nil
}

var _ Cache = (*FileCache)(nil)
