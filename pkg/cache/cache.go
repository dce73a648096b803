package cache

import (
	"context"
	"time"
)

// Cache is the interface for response caching. The in-memory implementation
// below is what the scanner uses; the interface leaves room for a shared
// backend without touching the adapters.
type Cache interface {
	// Set stores a value with an optional TTL. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value by key. Returns ErrKeyNotFound for missing or
	// expired keys.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the cache.
	Close() error
}

// NoOpCache is a Cache that stores nothing (caching disabled).
type NoOpCache struct{}

func (c *NoOpCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrKeyNotFound
}

func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NoOpCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (c *NoOpCache) Close() error {
	return nil
}
