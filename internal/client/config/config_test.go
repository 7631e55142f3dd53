package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, "http://127.0.0.1:8080", c.HTTPBaseURL)
	assert.Equal(t, TransportGRPC, c.Transport)
	assert.Equal(t, "session.db", c.DatabasePath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	c := Config{Transport: "carrier-pigeon", RequestTimeout: time.Second}
	assert.ErrorContains(t, c.Validate(), `unknown transport "carrier-pigeon"`)

	c = Config{Transport: TransportHTTP}
	assert.ErrorContains(t, c.Validate(), "request timeout must be positive")
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-u", "http://h:1", "-transport", "http", "-db", "x.db", "-timeout", "3s"},
			expected: &Config{
				ServerEndpointAddr: "127.0.0.1:9090",
				HTTPBaseURL:        "http://h:1",
				Transport:          TransportHTTP,
				DatabasePath:       "x.db",
				RequestTimeout:     3 * time.Second,
			},
		},
		{name: "incorrect timeout", args: []string{"-timeout", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config, tt.args) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config, tt.args) })
			}
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SESSIONKEEPER_CLI_TRANSPORT", "http")
	t.Setenv("SESSIONKEEPER_CLI_DATABASE_PATH", "env.db")

	b, err := json.Marshal(map[string]any{"database_path": "json.db", "request_timeout": "2s"})
	require.NoError(t, err)
	path := filepath.Join(dir, "cli.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	cfg := load([]string{"-config", path, "-timeout", "5s"})

	assert.Equal(t, TransportHTTP, cfg.Transport, "env over defaults")
	assert.Equal(t, "json.db", cfg.DatabasePath, "json over env")
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout, "flags over json")
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
}

func TestParseJson_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))

	cfg := &Config{}
	require.Panics(t, func() { parseJson(cfg, bad) })
	require.Panics(t, func() { parseJson(cfg, filepath.Join(t.TempDir(), "absent.json")) })
	require.NotPanics(t, func() { parseJson(cfg, "") })
}
