// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// MaxTTLSeconds is the largest TTL whose time.Duration does not overflow.
// Binding tags below repeat it literally.
const MaxTTLSeconds = 9223372036

// SetValueRequest represents the request body for storing a value.
type SetValueRequest struct {
	// Value is written as is when it is a string, and as JSON otherwise.
	Value      interface{} `json:"value"`
	TTLSeconds int64       `json:"ttlSeconds,omitempty" binding:"max=9223372036"`
}

// AdjustRequest represents the request body for incrementing or decrementing a key.
type AdjustRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

// ExpireRequest represents the request body for setting a key's TTL.
type ExpireRequest struct {
	TTLSeconds int64 `json:"ttlSeconds" binding:"required,min=1,max=9223372036"`
}

// UseDatabaseRequest represents the request body for switching the database.
type UseDatabaseRequest struct {
	Database *int `json:"database" binding:"required,min=0"`
}
