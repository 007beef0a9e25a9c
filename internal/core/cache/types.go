// Package cache provides the cache type constants.
package cache

// Type represents the type of cache.
type Type string

const (
	// TypeRedis represents a Redis cache.
	TypeRedis Type = "redis"
)

// DisabledMessage is reported as the last error of a disabled client.
const DisabledMessage = "cache client is disabled"

// State is the connection state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
	StateDisabled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Status tells apart a real result from a missing key and a disabled client.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusDisabled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Result carries the value of a client operation together with its Status.
// A disabled client returns the zero Value with StatusDisabled.
type Result[T any] struct {
	Value  T
	Status Status
}

// Ok wraps a value with StatusOK.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

// NotFound returns a result with StatusNotFound.
func NotFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

// Disabled returns a result with StatusDisabled and the given sentinel value.
func Disabled[T any](sentinel T) Result[T] {
	return Result[T]{Value: sentinel, Status: StatusDisabled}
}

// OK reports whether the operation ran against the server and found its target.
func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

// Found is an alias of OK for read operations.
func (r Result[T]) Found() bool {
	return r.Status == StatusOK
}

// IsDisabled reports whether the client was disabled.
func (r Result[T]) IsDisabled() bool {
	return r.Status == StatusDisabled
}

// JSONOptions controls how structured values are written.
type JSONOptions struct {
	// NumericCheck writes numeric strings as JSON numbers.
	NumericCheck bool
	// UnescapedUnicode writes non-ASCII characters literally instead of \uXXXX.
	UnescapedUnicode bool
	// SubstituteInvalidUTF8 replaces invalid UTF-8 with U+FFFD instead of failing.
	SubstituteInvalidUTF8 bool
	// UnescapedSlashes writes "/" instead of "\/".
	UnescapedSlashes bool
}

// DefaultJSONOptions returns the options with every flag enabled.
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{
		NumericCheck:          true,
		UnescapedUnicode:      true,
		SubstituteInvalidUTF8: true,
		UnescapedSlashes:      true,
	}
}
