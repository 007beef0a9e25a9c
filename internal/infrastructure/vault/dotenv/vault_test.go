package dotenv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/cache-service/internal/infrastructure/vault/dotenv"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secrets.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDotEnvVault_GetSecretFromEnv(t *testing.T) {
	t.Setenv("TEST_ENV_SECRET", "env-secret-value")

	v, err := dotenv.NewVault("")
	require.NoError(t, err)

	value, err := v.GetSecret(context.Background(), "dotenv://TEST_ENV_SECRET")
	assert.NoError(t, err)
	assert.Equal(t, "env-secret-value", value)
}

func TestDotEnvVault_GetSecretFromFile(t *testing.T) {
	path := writeSecrets(t, "REDIS_SECRET_FROM_FILE=file-value\nSHADOWED_SECRET=file\n")
	t.Setenv("SHADOWED_SECRET", "env")

	v, err := dotenv.NewVault(path)
	require.NoError(t, err)
	ctx := context.Background()

	value, err := v.GetSecret(ctx, "dotenv://REDIS_SECRET_FROM_FILE")
	assert.NoError(t, err)
	assert.Equal(t, "file-value", value)

	value, err = v.GetSecret(ctx, "dotenv://SHADOWED_SECRET")
	assert.NoError(t, err)
	assert.Equal(t, "env", value)
}

func TestDotEnvVault_GetSecretNotFound(t *testing.T) {
	v, err := dotenv.NewVault("")
	require.NoError(t, err)

	value, err := v.GetSecret(context.Background(), "dotenv://non-existent")
	assert.Error(t, err)
	assert.Empty(t, value)
	assert.Contains(t, err.Error(), "secret not found")
}

func TestDotEnvVault_RejectsOtherSchemes(t *testing.T) {
	v, err := dotenv.NewVault("")
	require.NoError(t, err)

	_, err = v.GetSecret(context.Background(), "vault://x")
	assert.ErrorContains(t, err, "unsupported secret reference")
}

func TestDotEnvVault_MissingFile(t *testing.T) {
	_, err := dotenv.NewVault(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorContains(t, err, "read secrets file")
}

func TestDotEnvVault_PingAndClose(t *testing.T) {
	path := writeSecrets(t, "A=b\n")
	v, err := dotenv.NewVault(path)
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, v.Ping(ctx))
	require.NoError(t, os.Remove(path))
	assert.ErrorContains(t, v.Ping(ctx), "secrets file unavailable")
	assert.NoError(t, v.Close())
}
