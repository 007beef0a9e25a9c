package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/unifiedui/cache-service/internal/core/cache"
	"github.com/unifiedui/cache-service/internal/services/cacheadmin"
)

// MockCacheService is a mock implementation of cacheadmin.Service.
type MockCacheService struct {
	mock.Mock
}

// NewMockCacheService creates a new MockCacheService.
func NewMockCacheService() *MockCacheService {
	return &MockCacheService{}
}

func (m *MockCacheService) Status(ctx context.Context) (*cacheadmin.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cacheadmin.Status), args.Error(1)
}

func (m *MockCacheService) Get(ctx context.Context, key string, decode bool) (cache.Result[any], error) {
	args := m.Called(ctx, key, decode)
	return args.Get(0).(cache.Result[any]), args.Error(1)
}

func (m *MockCacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) (cache.Result[bool], error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Get(0).(cache.Result[bool]), args.Error(1)
}

func (m *MockCacheService) Exists(ctx context.Context, key string) (cache.Result[bool], error) {
	args := m.Called(ctx, key)
	return args.Get(0).(cache.Result[bool]), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, keyOrPattern string) (cache.Result[[]string], error) {
	args := m.Called(ctx, keyOrPattern)
	return args.Get(0).(cache.Result[[]string]), args.Error(1)
}

func (m *MockCacheService) Keys(ctx context.Context, pattern string) (cache.Result[[]string], error) {
	args := m.Called(ctx, pattern)
	return args.Get(0).(cache.Result[[]string]), args.Error(1)
}

func (m *MockCacheService) IncrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error) {
	args := m.Called(ctx, key, amount)
	return args.Get(0).(cache.Result[int64]), args.Error(1)
}

func (m *MockCacheService) DecrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error) {
	args := m.Called(ctx, key, amount)
	return args.Get(0).(cache.Result[int64]), args.Error(1)
}

func (m *MockCacheService) Expire(ctx context.Context, key string, ttl time.Duration) (cache.Result[bool], error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(cache.Result[bool]), args.Error(1)
}

func (m *MockCacheService) FlushDatabase(ctx context.Context, async bool) (cache.Result[bool], error) {
	args := m.Called(ctx, async)
	return args.Get(0).(cache.Result[bool]), args.Error(1)
}

func (m *MockCacheService) UseDatabase(ctx context.Context, db int) (cache.Result[bool], error) {
	args := m.Called(ctx, db)
	return args.Get(0).(cache.Result[bool]), args.Error(1)
}

func (m *MockCacheService) LastError(ctx context.Context) (cache.Result[string], error) {
	args := m.Called(ctx)
	return args.Get(0).(cache.Result[string]), args.Error(1)
}

func (m *MockCacheService) Enable() {
	m.Called()
}

func (m *MockCacheService) Disable() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
