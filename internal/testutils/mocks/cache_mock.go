// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of cache.Store.
type MockStore struct {
	mock.Mock
}

// Connect opens the connection.
func (m *MockStore) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// IsConnected reports whether the connection is live.
func (m *MockStore) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

// Get retrieves a value.
func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set stores a value.
func (m *MockStore) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// SetEx stores a value with a TTL.
func (m *MockStore) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Del removes keys.
func (m *MockStore) Del(ctx context.Context, keys ...string) (int64, error) {
	args := m.Called(ctx, keys)
	return args.Get(0).(int64), args.Error(1)
}

// Scan runs one scan step.
func (m *MockStore) Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	args := m.Called(ctx, cursor, pattern, count)
	var keys []string
	if args.Get(0) != nil {
		keys = args.Get(0).([]string)
	}
	return keys, args.Get(1).(uint64), args.Error(2)
}

// Exists reports whether key is present.
func (m *MockStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// IncrBy increments key.
func (m *MockStore) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	args := m.Called(ctx, key, amount)
	return args.Get(0).(int64), args.Error(1)
}

// DecrBy decrements key.
func (m *MockStore) DecrBy(ctx context.Context, key string, amount int64) (int64, error) {
	args := m.Called(ctx, key, amount)
	return args.Get(0).(int64), args.Error(1)
}

// Expire sets a TTL.
func (m *MockStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

// FlushDB wipes the database.
func (m *MockStore) FlushDB(ctx context.Context, async bool) error {
	args := m.Called(ctx, async)
	return args.Error(0)
}

// Select switches the database.
func (m *MockStore) Select(ctx context.Context, db int) error {
	args := m.Called(ctx, db)
	return args.Error(0)
}

// DB returns the selected database.
func (m *MockStore) DB() int {
	args := m.Called()
	return args.Int(0)
}

// LastError returns the last server error.
func (m *MockStore) LastError() string {
	args := m.Called()
	return args.String(0)
}

// ClearLastError forgets the last server error.
func (m *MockStore) ClearLastError() {
	m.Called()
}

// Ping checks the connection.
func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close closes the connection.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
