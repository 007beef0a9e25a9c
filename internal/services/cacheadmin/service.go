// Package cacheadmin serializes access to a single cache client so it can be
// shared by concurrent callers such as HTTP handlers.
package cacheadmin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/unifiedui/cache-service/internal/core/cache"
	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
	"github.com/unifiedui/cache-service/internal/pkg/metrics"
)

// DefaultPattern is used when a scan is requested without a pattern.
const DefaultPattern = "*"

// Status describes the cache client.
type Status struct {
	State    string `json:"state"`
	Enabled  bool   `json:"enabled"`
	Database int    `json:"database"`
}

// Service provides validated, serialized cache operations.
type Service interface {
	Status(ctx context.Context) (*Status, error)
	Get(ctx context.Context, key string, decode bool) (cache.Result[any], error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) (cache.Result[bool], error)
	Exists(ctx context.Context, key string) (cache.Result[bool], error)
	Delete(ctx context.Context, keyOrPattern string) (cache.Result[[]string], error)
	Keys(ctx context.Context, pattern string) (cache.Result[[]string], error)
	IncrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error)
	DecrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error)
	Expire(ctx context.Context, key string, ttl time.Duration) (cache.Result[bool], error)
	FlushDatabase(ctx context.Context, async bool) (cache.Result[bool], error)
	UseDatabase(ctx context.Context, db int) (cache.Result[bool], error)
	LastError(ctx context.Context) (cache.Result[string], error)
	Enable()
	Disable() error
	Ping(ctx context.Context) error
}

// service implements the Service interface.
type service struct {
	mu      sync.Mutex
	client  cache.Client
	metrics *metrics.Collector
}

// Config holds the configuration for the cache admin service.
type Config struct {
	CacheClient cache.Client
	// Metrics is optional.
	Metrics *metrics.Collector
}

// NewService creates a new cache admin service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	return &service{client: cfg.CacheClient, metrics: cfg.Metrics}, nil
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.NewValidationError("key is required", "")
	}
	return nil
}

func validateTTL(ttl time.Duration) error {
	if ttl < 0 {
		return domainerrors.NewValidationError("ttl must not be negative", ttl.String())
	}
	return nil
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := &Status{
		State:   s.client.State().String(),
		Enabled: s.client.Enabled(),
	}
	if !status.Enabled {
		return status, nil
	}
	db, err := s.client.Database(ctx)
	if err != nil {
		return nil, err
	}
	status.Database = db.Value
	status.State = s.client.State().String()
	return status, nil
}

// Get returns the raw value, or the decoded JSON value when decode is set.
func (s *service) Get(ctx context.Context, key string, decode bool) (cache.Result[any], error) {
	if err := validateKey(key); err != nil {
		return cache.Result[any]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if decode {
		return track(s, "get_json", func() (cache.Result[any], error) {
			return s.client.GetJSON(ctx, key)
		})
	}
	raw, err := track(s, "get", func() (cache.Result[string], error) {
		return s.client.Get(ctx, key)
	})
	if err != nil {
		return cache.Result[any]{}, err
	}
	res := cache.Result[any]{Status: raw.Status}
	if raw.OK() {
		res.Value = raw.Value
	}
	return res, nil
}

func (s *service) Set(ctx context.Context, key string, value any, ttl time.Duration) (cache.Result[bool], error) {
	if err := validateKey(key); err != nil {
		return cache.Result[bool]{}, err
	}
	if err := validateTTL(ttl); err != nil {
		return cache.Result[bool]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "set", func() (cache.Result[bool], error) {
		return s.client.Set(ctx, key, value, ttl)
	})
}

func (s *service) Exists(ctx context.Context, key string) (cache.Result[bool], error) {
	if err := validateKey(key); err != nil {
		return cache.Result[bool]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "exists", func() (cache.Result[bool], error) {
		return s.client.Exists(ctx, key)
	})
}

func (s *service) Delete(ctx context.Context, keyOrPattern string) (cache.Result[[]string], error) {
	if err := validateKey(keyOrPattern); err != nil {
		return cache.Result[[]string]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "delete", func() (cache.Result[[]string], error) {
		return s.client.Delete(ctx, keyOrPattern)
	})
}

// Keys returns the sorted keys matching pattern.
func (s *service) Keys(ctx context.Context, pattern string) (cache.Result[[]string], error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "keys", func() (cache.Result[[]string], error) {
		return s.client.SortedKeys(ctx, pattern)
	})
}

func (s *service) IncrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error) {
	if err := validateKey(key); err != nil {
		return cache.Result[int64]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "incr_by", func() (cache.Result[int64], error) {
		return s.client.IncrBy(ctx, key, amount)
	})
}

func (s *service) DecrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error) {
	if err := validateKey(key); err != nil {
		return cache.Result[int64]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "decr_by", func() (cache.Result[int64], error) {
		return s.client.DecrBy(ctx, key, amount)
	})
}

func (s *service) Expire(ctx context.Context, key string, ttl time.Duration) (cache.Result[bool], error) {
	if err := validateKey(key); err != nil {
		return cache.Result[bool]{}, err
	}
	if err := validateTTL(ttl); err != nil {
		return cache.Result[bool]{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "expire", func() (cache.Result[bool], error) {
		return s.client.Expire(ctx, key, ttl)
	})
}

func (s *service) FlushDatabase(ctx context.Context, async bool) (cache.Result[bool], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "flush_database", func() (cache.Result[bool], error) {
		return s.client.FlushDatabase(ctx, async)
	})
}

func (s *service) UseDatabase(ctx context.Context, db int) (cache.Result[bool], error) {
	if db < 0 {
		return cache.Result[bool]{}, domainerrors.NewValidationError("database must not be negative", fmt.Sprintf("%d", db))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "use_database", func() (cache.Result[bool], error) {
		return s.client.UseDatabase(ctx, db)
	})
}

func (s *service) LastError(ctx context.Context) (cache.Result[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return track(s, "last_error", func() (cache.Result[string], error) {
		return s.client.LastError(ctx)
	})
}

func (s *service) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.Enable()
}

func (s *service) Disable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Disable()
}

func (s *service) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Ping(ctx)
}

// track runs op and records its outcome.
func track[T any](s *service, name string, op func() (cache.Result[T], error)) (cache.Result[T], error) {
	start := time.Now()
	res, err := op()

	outcome := res.Status.String()
	if err != nil {
		outcome = "error"
	}
	s.metrics.RecordCacheOperation(name, outcome, time.Since(start))
	return res, err
}
