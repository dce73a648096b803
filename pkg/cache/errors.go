package cache

import "errors"

var (
	// ErrKeyNotFound is returned when a key is missing or expired.
	ErrKeyNotFound = errors.New("cache key not found")

	// ErrClosed is returned when an operation runs against a closed cache.
	ErrClosed = errors.New("cache is closed")
)
