package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv_Variables(t *testing.T) {
	t.Setenv("SESSIONKEEPER_HTTP_ADDR", ":9080")
	t.Setenv("SESSIONKEEPER_STORAGE_BACKEND", "s3")
	t.Setenv("SESSIONKEEPER_REDIS_DB", "3")
	t.Setenv("SESSIONKEEPER_S3_USE_PATH_STYLE", "false")
	t.Setenv("SESSIONKEEPER_IDENTITY_TOKEN_TTL", "90s")
	t.Setenv("SESSIONKEEPER_SECRET_KEY", "")

	var c Config
	c.LoadDefaults()
	parseEnv(&c, "")

	assert.Equal(t, ":9080", c.EndpointAddrHTTP)
	assert.Equal(t, BackendS3, c.StorageBackend)
	assert.Equal(t, 3, c.RedisDB)
	assert.False(t, c.S3UsePathStyle)
	assert.Equal(t, 90*time.Second, c.IdentityTokenTTL)
	assert.Empty(t, c.SecretKey, "a set but empty variable still overrides")
	assert.Equal(t, ":50051", c.EndpointAddrGRPC, "unset variables keep defaults")
}

func Test_parseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("SESSIONKEEPER_REDIS_ADDR=redis:6379\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SESSIONKEEPER_REDIS_ADDR") })

	var c Config
	c.LoadDefaults()
	parseEnv(&c, path)

	assert.Equal(t, "redis:6379", c.RedisAddr)
}

func Test_parseEnv_ProcessEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("SESSIONKEEPER_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("SESSIONKEEPER_LOG_LEVEL", "warn")

	var c Config
	c.LoadDefaults()
	parseEnv(&c, path)

	assert.Equal(t, "warn", c.LogLevel)
}

func Test_parseEnv_Panics(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		var c Config
		require.Panics(t, func() { parseEnv(&c, filepath.Join(t.TempDir(), "absent.env")) })
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("SESSIONKEEPER_IDENTITY_TOKEN_TTL", "soon")
		var c Config
		require.Panics(t, func() { parseEnv(&c, "") })
	})

	t.Run("bad int", func(t *testing.T) {
		t.Setenv("SESSIONKEEPER_REDIS_DB", "zero")
		var c Config
		require.Panics(t, func() { parseEnv(&c, "") })
	})
}
