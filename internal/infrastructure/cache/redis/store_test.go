package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
	"github.com/unifiedui/cache-service/internal/testutils"
)

// replyError stands in for a server error reply.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}

func setupStore(t *testing.T) (*Store, context.Context) {
	t.Helper()

	mr := testutils.RunMiniredis(t)
	cfg := DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port = testutils.MiniredisPort(t, mr)

	store := NewStore(cfg)
	ctx := context.Background()
	require.NoError(t, store.Connect(ctx))
	t.Cleanup(func() { _ = store.Close() })
	return store, ctx
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultConfig().Address())
	assert.Equal(t, "[::1]:7000", Config{Host: "::1", Port: 7000}.Address())
}

func TestStore_NotConnected(t *testing.T) {
	store := NewStore(DefaultConfig())
	ctx := context.Background()

	assert.False(t, store.IsConnected())

	_, _, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, errNotConnected)
	assert.ErrorIs(t, store.Set(ctx, "k", "v"), errNotConnected)
	_, _, err = store.Scan(ctx, 0, "*", 10)
	assert.ErrorIs(t, err, errNotConnected)
	assert.ErrorIs(t, store.Ping(ctx), errNotConnected)
	assert.NoError(t, store.Close())
}

func TestStore_Operations(t *testing.T) {
	store, ctx := setupStore(t)

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.SetEx(ctx, "b", "2", time.Minute))

	val, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", val)

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := store.Exists(ctx, "b")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := store.IncrBy(ctx, "a", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = store.DecrBy(ctx, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	set, err := store.Expire(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, set)

	keys, cursor, err := store.Scan(ctx, 0, "*", 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
	assert.Zero(t, cursor)

	deleted, err := store.Del(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	require.NoError(t, store.FlushDB(ctx, false))
	require.NoError(t, store.Ping(ctx))
}

func TestStore_SelectIsPerConnection(t *testing.T) {
	store, ctx := setupStore(t)

	require.NoError(t, store.Select(ctx, 5))
	assert.Equal(t, 5, store.DB())

	require.NoError(t, store.Close())
	require.NoError(t, store.Connect(ctx))
	assert.Equal(t, 0, store.DB())
}

func TestStore_ConnectIsIdempotent(t *testing.T) {
	store, ctx := setupStore(t)
	conn := store.conn

	require.NoError(t, store.Connect(ctx))
	assert.Same(t, conn, store.conn)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	store, _ := setupStore(t)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	assert.False(t, store.IsConnected())
}

func TestStore_RecordsErrorReplies(t *testing.T) {
	store, ctx := setupStore(t)

	require.NoError(t, store.Set(ctx, "s", "text"))
	_, err := store.IncrBy(ctx, "s", 1)
	require.Error(t, err)

	assert.Contains(t, store.LastError(), "not an integer")
	assert.True(t, store.IsConnected())

	store.ClearLastError()
	assert.Empty(t, store.LastError())
}

func TestStore_ConnectRefused(t *testing.T) {
	mr := testutils.RunMiniredis(t)
	cfg := DefaultConfig()
	cfg.Host = mr.Host()
	cfg.Port = testutils.MiniredisPort(t, mr)
	cfg.ConnectTimeout = time.Second
	mr.Close()

	store := NewStore(cfg)
	err := store.Connect(context.Background())

	assert.True(t, domainerrors.IsConnectionError(err))
	assert.False(t, store.IsConnected())
}

func TestStore_ObserveMarksBroken(t *testing.T) {
	store := NewStore(DefaultConfig())

	assert.NoError(t, store.observe(nil))
	assert.ErrorIs(t, store.observe(goredis.Nil), goredis.Nil)
	assert.False(t, store.broken)

	reply := replyError("ERR wrong kind")
	assert.Equal(t, error(reply), store.observe(reply))
	assert.False(t, store.broken)
	assert.Equal(t, "ERR wrong kind", store.LastError())

	assert.ErrorIs(t, store.observe(io.EOF), io.EOF)
	assert.True(t, store.broken)
}

func TestStore_ObserveMarksBrokenOnContextError(t *testing.T) {
	store := NewStore(DefaultConfig())

	assert.ErrorIs(t, store.observe(context.Canceled), context.Canceled)
	assert.True(t, store.broken)
}

func TestIsBadConn(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"eof", io.EOF, true},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"net closed", net.ErrClosed, true},
		{"client closed", goredis.ErrClosed, true},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("refused")}, true},
		{"canceled", context.Canceled, true},
		{"deadline", context.DeadlineExceeded, true},
		{"marshal", errors.New("redis: can't marshal chan int (implement encoding.BinaryMarshaler)"), true},
		{"reply", replyError("ERR syntax error"), false},
		{"wrong type", replyError("WRONGTYPE Operation against a key holding the wrong kind of value"), false},
		{"readonly", replyError("READONLY You can't write against a read only replica."), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBadConn(tt.err))
		})
	}
}

func TestStore_ReconnectsAfterMarshalFailure(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.Set(ctx, "a", make(chan int))
	require.Error(t, err)
	assert.False(t, store.IsConnected())
	assert.Empty(t, store.LastError())

	require.NoError(t, store.Connect(ctx))
	require.NoError(t, store.Set(ctx, "b", "v"))

	value, found, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"wrongpass", replyError("WRONGPASS invalid username-password pair"), true},
		{"noauth", replyError("NOAUTH Authentication required."), true},
		{"legacy", replyError("ERR invalid password"), true},
		{"other reply", replyError("ERR unknown command"), false},
		{"not a reply", errors.New("WRONGPASS"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAuthError(tt.err))
		})
	}
}
