// Package cache defines the cache client interface.
package cache

import (
	"context"
	"time"
)

// Client is a higher-level cache client that wraps the Store interface.
// It manages the connection lifecycle lazily and provides JSON serialization.
type Client interface {
	// GetStore returns the underlying Store implementation.
	GetStore() Store

	// Connect establishes the connection if it is not already live.
	Connect(ctx context.Context) (Result[bool], error)

	// Get retrieves a raw value.
	Get(ctx context.Context, key string) (Result[string], error)

	// GetJSON retrieves a value and decodes it as JSON.
	GetJSON(ctx context.Context, key string) (Result[any], error)

	// GetMany retrieves every key matching pattern.
	GetMany(ctx context.Context, pattern string, decode bool) (Result[map[string]any], error)

	// Set stores a value. Structured values are encoded as JSON.
	// A ttl of 0 stores the value without expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) (Result[bool], error)

	Exists(ctx context.Context, key string) (Result[bool], error)
	IncrBy(ctx context.Context, key string, amount int64) (Result[int64], error)
	DecrBy(ctx context.Context, key string, amount int64) (Result[int64], error)
	Expire(ctx context.Context, key string, ttl time.Duration) (Result[bool], error)

	// Delete removes a key, or every key matching a wildcard pattern.
	// Returns the keys that were removed.
	Delete(ctx context.Context, keyOrPattern string) (Result[[]string], error)

	// Keys returns the keys matching pattern.
	Keys(ctx context.Context, pattern string) (Result[[]string], error)

	// SortedKeys is Keys with the result sorted.
	SortedKeys(ctx context.Context, pattern string) (Result[[]string], error)

	FlushDatabase(ctx context.Context, async bool) (Result[bool], error)
	UseDatabase(ctx context.Context, db int) (Result[bool], error)
	Database(ctx context.Context) (Result[int], error)

	// LastError returns the last error reply of the server.
	LastError(ctx context.Context) (Result[string], error)
	ClearLastError(ctx context.Context) (Result[bool], error)

	// Ping checks if the cache connection is alive.
	Ping(ctx context.Context) error

	State() State
	Enabled() bool
	Enable()
	Disable() error

	// Close closes the cache client connection.
	Close() error
}
