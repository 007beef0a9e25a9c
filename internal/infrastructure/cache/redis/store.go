// Package redis provides the Redis cache implementation.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unifiedui/cache-service/internal/core/cache"
	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
)

const (
	defaultHost           = "localhost"
	defaultPort           = 6379
	defaultConnectTimeout = 5 * time.Second
	defaultReadTimeout    = 3 * time.Second
)

var errNotConnected = errors.New("redis store is not connected")

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     int
	Password string
	// DB is selected on every new connection. 0 sends no SELECT.
	DB int
	// Disabled turns every client operation into a no-op.
	Disabled bool

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// JSON defaults to cache.DefaultJSONOptions when nil.
	JSON   *cache.JSONOptions
	Logger *zerolog.Logger
}

// DefaultConfig returns the configuration of a local Redis on database 0.
func DefaultConfig() Config {
	opts := cache.DefaultJSONOptions()
	return Config{
		Host:           defaultHost,
		Port:           defaultPort,
		ConnectTimeout: defaultConnectTimeout,
		ReadTimeout:    defaultReadTimeout,
		JSON:           &opts,
	}
}

// Address returns the server address in host:port format.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// Store implements the cache.Store interface for Redis.
// It holds a single physical connection and is not safe for concurrent use.
type Store struct {
	cfg     Config
	client  *redis.Client
	conn    *redis.Conn
	db      int
	broken  bool
	lastErr string
}

// NewStore creates a Redis store. No network I/O happens until Connect.
func NewStore(cfg Config) *Store {
	return &Store{
		cfg: cfg,
		db:  cfg.DB,
	}
}

func (s *Store) options() *redis.Options {
	return &redis.Options{
		Addr:         s.cfg.Address(),
		Password:     s.cfg.Password,
		DB:           s.cfg.DB,
		DialTimeout:  s.cfg.ConnectTimeout,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		PoolSize:     1,
		MaxRetries:   -1,
	}
}

// Connect dials the server and runs the AUTH and SELECT handshake.
func (s *Store) Connect(ctx context.Context) error {
	if s.IsConnected() {
		return nil
	}
	s.release()

	client := redis.NewClient(s.options())
	conn := client.Conn()
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		_ = client.Close()
		s.record(err)
		if isAuthError(err) {
			return domainerrors.NewAuthError(err)
		}
		return domainerrors.NewConnectionError(s.cfg.Address(), err)
	}

	s.client = client
	s.conn = conn
	s.db = s.cfg.DB
	s.broken = false
	return nil
}

// IsConnected reports whether the connection is open and has not failed.
func (s *Store) IsConnected() bool {
	return s.conn != nil && !s.broken
}

// Get retrieves a value from Redis by key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.conn == nil {
		return "", false, errNotConnected
	}
	val, err := s.conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.observe(err)
	}
	return val, true, nil
}

// Set stores a value without expiry.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if s.conn == nil {
		return errNotConnected
	}
	return s.observe(s.conn.Set(ctx, key, value, 0).Err())
}

// SetEx stores a value with a TTL.
func (s *Store) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.conn == nil {
		return errNotConnected
	}
	return s.observe(s.conn.SetEx(ctx, key, value, ttl).Err())
}

// Del removes keys from Redis.
func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	if s.conn == nil {
		return 0, errNotConnected
	}
	n, err := s.conn.Del(ctx, keys...).Result()
	return n, s.observe(err)
}

// Scan runs one SCAN step.
func (s *Store) Scan(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error) {
	if s.conn == nil {
		return nil, 0, errNotConnected
	}
	keys, next, err := s.conn.Scan(ctx, cursor, pattern, count).Result()
	return keys, next, s.observe(err)
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if s.conn == nil {
		return false, errNotConnected
	}
	n, err := s.conn.Exists(ctx, key).Result()
	return n > 0, s.observe(err)
}

// IncrBy atomically increments key by amount.
func (s *Store) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	if s.conn == nil {
		return 0, errNotConnected
	}
	n, err := s.conn.IncrBy(ctx, key, amount).Result()
	return n, s.observe(err)
}

// DecrBy atomically decrements key by amount.
func (s *Store) DecrBy(ctx context.Context, key string, amount int64) (int64, error) {
	if s.conn == nil {
		return 0, errNotConnected
	}
	n, err := s.conn.DecrBy(ctx, key, amount).Result()
	return n, s.observe(err)
}

// Expire sets a key's TTL.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if s.conn == nil {
		return false, errNotConnected
	}
	ok, err := s.conn.Expire(ctx, key, ttl).Result()
	return ok, s.observe(err)
}

// FlushDB wipes the selected database.
func (s *Store) FlushDB(ctx context.Context, async bool) error {
	if s.conn == nil {
		return errNotConnected
	}
	if async {
		return s.observe(s.conn.FlushDBAsync(ctx).Err())
	}
	return s.observe(s.conn.FlushDB(ctx).Err())
}

// Select switches the database of the live connection only.
// A reconnect goes back to the configured database.
func (s *Store) Select(ctx context.Context, db int) error {
	if s.conn == nil {
		return errNotConnected
	}
	if err := s.observe(s.conn.Select(ctx, db).Err()); err != nil {
		return err
	}
	s.db = db
	return nil
}

// DB returns the database of the live connection.
func (s *Store) DB() int {
	return s.db
}

// LastError returns the last error reply of the server.
func (s *Store) LastError() string {
	return s.lastErr
}

// ClearLastError forgets the last error reply.
func (s *Store) ClearLastError() {
	s.lastErr = ""
}

// Ping checks if the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return errNotConnected
	}
	return s.observe(s.conn.Ping(ctx).Err())
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.release()
	if err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}
	return nil
}

func (s *Store) release() error {
	var err error
	if s.conn != nil {
		err = s.conn.Close()
	}
	if s.client != nil {
		if cerr := s.client.Close(); err == nil {
			err = cerr
		}
	}
	s.conn = nil
	s.client = nil
	s.broken = false
	if errors.Is(err, redis.ErrClosed) {
		err = nil
	}
	return err
}

// observe records server error replies and marks the handle broken on
// anything else, including marshal and context errors. go-redis poisons its
// single sticky connection in those cases, so the next operation reconnects.
// The error is returned unchanged.
func (s *Store) observe(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	s.record(err)
	if isBadConn(err) {
		s.broken = true
	}
	return err
}

func (s *Store) record(err error) {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		s.lastErr = rerr.Error()
	}
}

// isBadConn reports whether go-redis discards the connection after err.
// Only plain server replies leave it usable; READONLY replies do not.
func isBadConn(err error) bool {
	var rerr redis.Error
	if errors.As(err, &rerr) {
		return strings.HasPrefix(rerr.Error(), "READONLY ")
	}
	return true
}

func isAuthError(err error) bool {
	var rerr redis.Error
	if !errors.As(err, &rerr) {
		return false
	}
	msg := rerr.Error()
	return strings.HasPrefix(msg, "WRONGPASS") ||
		strings.HasPrefix(msg, "NOAUTH") ||
		strings.Contains(msg, "invalid password") ||
		strings.Contains(msg, "invalid username-password")
}
