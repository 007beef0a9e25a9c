// Package dotenv resolves dotenv:// secret references from the process
// environment and an optional secrets file.
package dotenv

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const scheme = "dotenv://"

// Vault looks secrets up in the environment first, then in the secrets file.
type Vault struct {
	path  string
	fileSecrets map[string]string
}

// NewVault creates a vault. An empty path means environment only.
func NewVault(path string) (*Vault, error) {
	v := &Vault{path: path}
	if path == "" {
		return v, nil
	}
	secrets, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	v.fileSecrets = secrets
	return v, nil
}

// GetSecret resolves a dotenv://NAME reference.
func (v *Vault) GetSecret(_ context.Context, uri string) (string, error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", fmt.Errorf("unsupported secret reference: %s", uri)
	}
	key := strings.TrimPrefix(uri, scheme)

	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value, nil
	}
	if value, ok := v.fileSecrets[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("secret not found: %s", key)
}

// Ping fails when the configured secrets file has gone away.
func (v *Vault) Ping(_ context.Context) error {
	if v.path == "" {
		return nil
	}
	if _, err := os.Stat(v.path); err != nil {
		return fmt.Errorf("secrets file unavailable: %w", err)
	}
	return nil
}

// Close is a no-op.
func (v *Vault) Close() error {
	return nil
}
