package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-s", "secret", "-a", ":8080"},
			allowed: []string{"-s"},
			want:    []string{"-s", "secret"},
		},
		{
			name:    "equals form",
			args:    []string{"-ttl=30", "-a", ":8080"},
			allowed: []string{"-ttl"},
			want:    []string{"-ttl=30"},
		},
		{
			name:    "order preserved",
			args:    []string{"-b=redis", "-x", "1", "-d", "dsn"},
			allowed: []string{"-b", "-d"},
			want:    []string{"-b=redis", "-d", "dsn"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next arg is a flag",
			args:    []string{"-c", "-notvalue"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceFiles(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		j, e := SourceFiles([]string{"-a", ":8080"})
		assert.Empty(t, j)
		assert.Empty(t, e)
	})

	t.Run("short config and env", func(t *testing.T) {
		j, e := SourceFiles([]string{"-c", "cfg.json", "-env", "dev.env", "-s", "x"})
		assert.Equal(t, "cfg.json", j)
		assert.Equal(t, "dev.env", e)
	})

	t.Run("long config with equals", func(t *testing.T) {
		j, _ := SourceFiles([]string{"-config=/etc/sk.json"})
		assert.Equal(t, "/etc/sk.json", j)
	})
}
