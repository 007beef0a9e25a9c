// Package vault defines the vault interface for secrets management.
package vault

import (
	"context"
	"strings"
)

// Vault resolves secret references such as the Redis password.
type Vault interface {
	// GetSecret retrieves a secret from the vault by URI.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// IsReference reports whether value is a secret URI such as "dotenv://NAME".
func IsReference(value string) bool {
	return strings.HasPrefix(value, string(TypeDotEnv)+"://")
}

// Resolve returns value itself, or the secret it references.
func Resolve(ctx context.Context, v Vault, value string) (string, error) {
	if !IsReference(value) {
		return value, nil
	}
	return v.GetSecret(ctx, value)
}
