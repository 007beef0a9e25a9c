// Package redis provides the Redis cache client implementation.
package redis

import (
	"context"
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/cache-service/internal/core/cache"
	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
)

// scanBatchSize is the COUNT hint of every SCAN step.
const scanBatchSize = 100

const jsonNull = "null"

// Client implements the cache.Client interface for Redis.
//
// The connection is opened on the first operation and reopened on the first
// operation after it was closed or dropped. A Client is not safe for
// concurrent use.
type Client struct {
	cfg     Config
	store   cache.Store
	state   cache.State
	enabled bool
	json    cache.JSONOptions
	logger  zerolog.Logger
}

// NewClient creates a new Redis cache client. No connection is made.
func NewClient(cfg Config) (*Client, error) {
	cfg = withDefaults(cfg)
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, domainerrors.NewValidationError("invalid redis port", cfg.Address())
	}
	if cfg.DB < 0 {
		return nil, domainerrors.NewValidationError("invalid redis database", cfg.Address())
	}
	return NewClientWithStore(cfg, NewStore(cfg)), nil
}

// NewClientWithStore creates a client on top of an existing store.
func NewClientWithStore(cfg Config, store cache.Store) *Client {
	cfg = withDefaults(cfg)

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		cfg:     cfg,
		store:   store,
		state:   cache.StateDisconnected,
		enabled: !cfg.Disabled,
		json:    *cfg.JSON,
		logger:  logger.With().Str("component", "cache").Str("addr", cfg.Address()).Logger(),
	}
	if !c.enabled {
		c.state = cache.StateDisabled
	}
	return c
}

func withDefaults(cfg Config) Config {
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.JSON == nil {
		opts := cache.DefaultJSONOptions()
		cfg.JSON = &opts
	}
	return cfg
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	cfg := c.cfg
	cfg.Disabled = !c.enabled
	opts := c.json
	cfg.JSON = &opts
	return cfg
}

// Reconfigure returns a new, unconnected client for cfg.
// The receiver is left untouched.
func (c *Client) Reconfigure(cfg Config) (*Client, error) {
	return NewClient(cfg)
}

// GetStore returns the underlying Store implementation.
func (c *Client) GetStore() cache.Store {
	return c.store
}

// SetJSONOptions replaces the options used to encode structured values.
func (c *Client) SetJSONOptions(opts cache.JSONOptions) {
	c.json = opts
}

// JSONOptions returns the options used to encode structured values.
func (c *Client) JSONOptions() cache.JSONOptions {
	return c.json
}

// State returns the connection state. A dropped connection is reported as
// disconnected.
func (c *Client) State() cache.State {
	if c.state == cache.StateConnected && !c.store.IsConnected() {
		return cache.StateDisconnected
	}
	return c.state
}

// IsConnected reports whether the client holds a live connection.
func (c *Client) IsConnected() bool {
	return c.enabled && c.store.IsConnected()
}

// Enabled reports whether operations reach the server.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Enable turns a disabled client back on. The next operation connects.
func (c *Client) Enable() {
	if c.enabled {
		return
	}
	c.enabled = true
	c.state = cache.StateDisconnected
	c.logger.Debug().Msg("cache client enabled")
}

// Disable turns every operation into a no-op and closes the connection.
func (c *Client) Disable() error {
	c.enabled = false
	c.state = cache.StateDisabled
	c.logger.Debug().Msg("cache client disabled")
	return c.store.Close()
}

// ensureConnected runs the connect handshake unless the store is live.
func (c *Client) ensureConnected(ctx context.Context) error {
	if c.store.IsConnected() {
		c.state = cache.StateConnected
		return nil
	}
	if c.state == cache.StateConnected {
		c.logger.Debug().Msg("connection lost, reconnecting")
	}

	c.state = cache.StateConnecting
	if err := c.store.Connect(ctx); err != nil {
		c.state = cache.StateFailed
		return err
	}
	c.state = cache.StateConnected
	c.logger.Debug().Int("db", c.store.DB()).Msg("connected")
	return nil
}

// run is the guard shared by every operation: disabled clients return the
// sentinel, everything else connects first.
func run[T any](ctx context.Context, c *Client, sentinel T, op func() (cache.Result[T], error)) (cache.Result[T], error) {
	if !c.enabled {
		return cache.Disabled(sentinel), nil
	}
	if err := c.ensureConnected(ctx); err != nil {
		return cache.Result[T]{}, err
	}
	return op()
}

// Connect establishes the connection if it is not already live.
func (c *Client) Connect(ctx context.Context) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		return cache.Ok(true), nil
	})
}

// Get retrieves a raw value.
func (c *Client) Get(ctx context.Context, key string) (cache.Result[string], error) {
	return run(ctx, c, "", func() (cache.Result[string], error) {
		val, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return cache.Result[string]{}, err
		}
		if !ok {
			return cache.NotFound[string](), nil
		}
		return cache.Ok(val), nil
	})
}

// GetJSON retrieves a value and decodes it as JSON.
func (c *Client) GetJSON(ctx context.Context, key string) (cache.Result[any], error) {
	return GetAs[any](ctx, c, key)
}

// GetAs retrieves a value and decodes it as JSON into a T.
func GetAs[T any](ctx context.Context, c *Client, key string) (cache.Result[T], error) {
	var zero T
	raw, err := c.Get(ctx, key)
	if err != nil || !raw.OK() {
		return cache.Result[T]{Value: zero, Status: raw.Status}, err
	}
	if err := json.Unmarshal([]byte(raw.Value), &zero); err != nil {
		return cache.Result[T]{}, domainerrors.NewDecodeError(key, err)
	}
	return cache.Ok(zero), nil
}

// GetMany retrieves every key matching pattern. Keys that vanish between
// the scan and the read are skipped.
func (c *Client) GetMany(ctx context.Context, pattern string, decode bool) (cache.Result[map[string]any], error) {
	return run(ctx, c, map[string]any{}, func() (cache.Result[map[string]any], error) {
		keys, err := c.collect(ctx, pattern)
		if err != nil {
			return cache.Result[map[string]any]{}, err
		}

		values := make(map[string]any, len(keys))
		for _, key := range keys {
			val, ok, err := c.store.Get(ctx, key)
			if err != nil {
				return cache.Result[map[string]any]{}, err
			}
			if !ok {
				continue
			}
			if !decode {
				values[key] = val
				continue
			}
			var decoded any
			if err := json.Unmarshal([]byte(val), &decoded); err != nil {
				return cache.Result[map[string]any]{}, domainerrors.NewDecodeError(key, err)
			}
			values[key] = decoded
		}
		return cache.Ok(values), nil
	})
}

// Set stores a value. Maps, slices, arrays and structs are encoded as JSON;
// strings, byte slices and scalars are written as they are. A positive ttl
// is rounded up to whole seconds.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		payload, err := c.encode(key, value)
		if err != nil {
			return cache.Result[bool]{}, err
		}

		if ttl > 0 {
			ttl = time.Duration(math.Ceil(ttl.Seconds())) * time.Second
			err = c.store.SetEx(ctx, key, payload, ttl)
		} else {
			err = c.store.Set(ctx, key, payload)
		}
		if err != nil {
			return cache.Result[bool]{}, err
		}
		return cache.Ok(true), nil
	})
}

// encode turns value into something the store can write. Structured values
// become JSON, nil pointers become null and scalars are written as-is.
func (c *Client) encode(key string, value any) (any, error) {
	if value == nil {
		return value, nil
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return jsonNull, nil
	}
	switch value.(type) {
	case string, []byte, time.Time, encoding.BinaryMarshaler:
		return value, nil
	}

	for (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		b, err := encodeJSON(value, c.json)
		if err != nil {
			return nil, domainerrors.NewEncodeError(key, err)
		}
		return string(b), nil
	case reflect.Pointer, reflect.Interface:
		return jsonNull, nil
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), nil
	case reflect.Float32:
		return float32(v.Float()), nil
	case reflect.Float64:
		return v.Float(), nil
	default:
		return nil, domainerrors.NewEncodeError(key, fmt.Errorf("unsupported value type %T", value))
	}
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		ok, err := c.store.Exists(ctx, key)
		if err != nil {
			return cache.Result[bool]{}, err
		}
		return cache.Ok(ok), nil
	})
}

// IncrBy atomically adds amount to key and returns the new value.
func (c *Client) IncrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error) {
	return run(ctx, c, 0, func() (cache.Result[int64], error) {
		n, err := c.store.IncrBy(ctx, key, amount)
		if err != nil {
			return cache.Result[int64]{}, err
		}
		return cache.Ok(n), nil
	})
}

// DecrBy atomically subtracts amount from key and returns the new value.
func (c *Client) DecrBy(ctx context.Context, key string, amount int64) (cache.Result[int64], error) {
	return run(ctx, c, 0, func() (cache.Result[int64], error) {
		n, err := c.store.DecrBy(ctx, key, amount)
		if err != nil {
			return cache.Result[int64]{}, err
		}
		return cache.Ok(n), nil
	})
}

// Expire sets or refreshes the TTL of key. A missing key yields StatusNotFound.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		ok, err := c.store.Expire(ctx, key, ttl)
		if err != nil {
			return cache.Result[bool]{}, err
		}
		if !ok {
			return cache.NotFound[bool](), nil
		}
		return cache.Ok(true), nil
	})
}

// Delete removes a key, or with a wildcard pattern every matching key, and
// returns the sorted keys that were removed.
//
// Matching keys are deleted one SCAN batch at a time. DEL reports a count per
// batch, so a batch is credited as a whole when the count is positive.
func (c *Client) Delete(ctx context.Context, keyOrPattern string) (cache.Result[[]string], error) {
	return run(ctx, c, []string{}, func() (cache.Result[[]string], error) {
		if !isPattern(keyOrPattern) {
			n, err := c.store.Del(ctx, keyOrPattern)
			if err != nil {
				return cache.Result[[]string]{}, err
			}
			if n == 0 {
				return cache.Ok([]string{}), nil
			}
			return cache.Ok([]string{keyOrPattern}), nil
		}

		deleted := newKeySet()
		err := c.scan(ctx, keyOrPattern, func(batch []string) error {
			n, err := c.store.Del(ctx, batch...)
			if err != nil {
				return err
			}
			if n > 0 {
				deleted.add(batch...)
			}
			return nil
		})
		if err != nil {
			return cache.Result[[]string]{}, err
		}
		return cache.Ok(deleted.sorted()), nil
	})
}

// Keys returns the keys matching pattern in discovery order, without duplicates.
func (c *Client) Keys(ctx context.Context, pattern string) (cache.Result[[]string], error) {
	return run(ctx, c, []string{}, func() (cache.Result[[]string], error) {
		keys, err := c.collect(ctx, pattern)
		if err != nil {
			return cache.Result[[]string]{}, err
		}
		return cache.Ok(keys), nil
	})
}

// SortedKeys returns the keys matching pattern in lexical order.
func (c *Client) SortedKeys(ctx context.Context, pattern string) (cache.Result[[]string], error) {
	res, err := c.Keys(ctx, pattern)
	if err != nil {
		return res, err
	}
	slices.Sort(res.Value)
	return res, nil
}

func (c *Client) collect(ctx context.Context, pattern string) ([]string, error) {
	found := newKeySet()
	err := c.scan(ctx, pattern, func(batch []string) error {
		found.add(batch...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found.keys, nil
}

// scan walks the keyspace with SCAN until the server hands back cursor 0.
// Empty batches with a non-zero cursor are normal.
func (c *Client) scan(ctx context.Context, pattern string, fn func(batch []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.store.Scan(ctx, cursor, pattern, scanBatchSize)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// FlushDatabase wipes the selected database.
func (c *Client) FlushDatabase(ctx context.Context, async bool) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		if err := c.store.FlushDB(ctx, async); err != nil {
			return cache.Result[bool]{}, err
		}
		return cache.Ok(true), nil
	})
}

// UseDatabase switches the database of the live connection. A reconnect
// selects the configured database again.
func (c *Client) UseDatabase(ctx context.Context, db int) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		if err := c.store.Select(ctx, db); err != nil {
			return cache.Result[bool]{}, err
		}
		return cache.Ok(true), nil
	})
}

// Database returns the database of the live connection.
func (c *Client) Database(ctx context.Context) (cache.Result[int], error) {
	return run(ctx, c, c.cfg.DB, func() (cache.Result[int], error) {
		return cache.Ok(c.store.DB()), nil
	})
}

// LastError returns the last error reply of the server. No error yields
// StatusNotFound; a disabled client reports cache.DisabledMessage.
func (c *Client) LastError(ctx context.Context) (cache.Result[string], error) {
	return run(ctx, c, cache.DisabledMessage, func() (cache.Result[string], error) {
		msg := c.store.LastError()
		if msg == "" {
			return cache.NotFound[string](), nil
		}
		return cache.Ok(msg), nil
	})
}

// ClearLastError forgets the last error reply.
func (c *Client) ClearLastError(ctx context.Context) (cache.Result[bool], error) {
	return run(ctx, c, false, func() (cache.Result[bool], error) {
		c.store.ClearLastError()
		return cache.Ok(true), nil
	})
}

// Ping checks if the cache connection is alive. A disabled client is not pinged.
func (c *Client) Ping(ctx context.Context) error {
	_, err := run(ctx, c, false, func() (cache.Result[bool], error) {
		if err := c.store.Ping(ctx); err != nil {
			return cache.Result[bool]{}, err
		}
		return cache.Ok(true), nil
	})
	return err
}

// Close closes the cache client connection. The client stays usable.
func (c *Client) Close() error {
	if c.enabled {
		c.state = cache.StateDisconnected
	}
	if err := c.store.Close(); err != nil {
		return err
	}
	c.logger.Debug().Msg("connection closed")
	return nil
}

// isPattern reports whether key contains glob characters.
func isPattern(key string) bool {
	return strings.ContainsAny(key, "*?[")
}

// keySet keeps insertion order and drops duplicates.
type keySet struct {
	seen map[string]struct{}
	keys []string
}

func newKeySet() *keySet {
	return &keySet{
		seen: make(map[string]struct{}),
		keys: []string{},
	}
}

func (s *keySet) add(keys ...string) {
	for _, k := range keys {
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.keys = append(s.keys, k)
	}
}

func (s *keySet) sorted() []string {
	out := slices.Clone(s.keys)
	slices.Sort(out)
	return out
}
