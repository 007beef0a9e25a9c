// Package cache defines the cache interface and factory.
package cache

import (
	"context"
	"time"
)

// Store defines the operation set of the remote key-value server.
// Implementations own exactly one physical connection.
type Store interface {
	// Connect dials the server, authenticates and selects the configured database.
	Connect(ctx context.Context) error

	// IsConnected reports whether the handle is believed to be alive.
	IsConnected() bool

	// Get retrieves a raw value. The bool is false if the key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value without expiry.
	Set(ctx context.Context, key string, value interface{}) error

	// SetEx stores a value that expires after ttl.
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Del removes the given keys and returns how many were removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Scan returns one batch of keys matching pattern and the next cursor.
	// A returned cursor of 0 means the iteration is complete.
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	IncrBy(ctx context.Context, key string, amount int64) (int64, error)
	DecrBy(ctx context.Context, key string, amount int64) (int64, error)

	// Expire sets a key's time to live. Returns false if the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// FlushDB removes every key of the selected database.
	FlushDB(ctx context.Context, async bool) error

	// Select switches the logical database of the live connection.
	Select(ctx context.Context, db int) error

	// DB returns the logical database of the live connection.
	DB() int

	// LastError returns the last error reply sent by the server, if any.
	LastError() string

	ClearLastError()

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// Close closes the connection. Calling Close twice is safe.
	Close() error
}
