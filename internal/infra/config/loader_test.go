package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load_Defaults(t *testing.T) {
	// Setup: no config file
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)

	// Execute
	cfg, err := NewFileLoader(path).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_FileOverridesDefaults(t *testing.T) {
	// Setup
	path := writeConfig(t, `
[store]
backend = "git"
namespace = "board"

[store.s3]
region = "eu-west-1"

[history]
capacity = 10

[http]
port = 9090
cors = ["http://localhost:5173"]

[snapshot]
schedule = "@hourly"

[log]
level = "debug"
`)

	// Execute
	cfg, err := NewFileLoader(path).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.BackendGit, cfg.Store.Backend)
	assert.Equal(t, "board", cfg.Store.Namespace)
	assert.Equal(t, domain.DefaultBackupPath, cfg.Store.Path)
	assert.Equal(t, "eu-west-1", cfg.Store.S3.Region)
	assert.Equal(t, 10, cfg.History.Capacity)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, domain.DefaultHTTPHost, cfg.HTTP.Host)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.CORS)
	assert.Equal(t, "@hourly", cfg.Snapshot.Schedule)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_Load_EnvOverridesFile(t *testing.T) {
	// Setup
	path := writeConfig(t, `
[http]
port = 9090

[log]
level = "debug"
`)
	t.Setenv("KANBAN_HTTP_PORT", "7070")
	t.Setenv("KANBAN_HISTORY_CAPACITY", "3")
	t.Setenv("KANBAN_STORE_BACKEND", "git")

	// Execute
	cfg, err := NewLoader(path).Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTP.Port)
	assert.Equal(t, 3, cfg.History.Capacity)
	assert.Equal(t, domain.BackendGit, cfg.Store.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_Load_FileLoaderIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	t.Setenv("KANBAN_HTTP_PORT", "7070")

	cfg, err := NewFileLoader(path).Load()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHTTPPort, cfg.HTTP.Port)
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "[store\nbackend = "},
		{"unknown key", "[store]\nengine = \"csv\"\n"},
		{"unknown backend", "[store]\nbackend = \"sqlite\"\n"},
		{"s3 without bucket", "[store]\nblob = \"s3\"\n"},
		{"negative capacity", "[history]\ncapacity = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileLoader(writeConfig(t, tt.content)).Load()
			assert.Error(t, err)
		})
	}
}

func TestMergeConfigs_DoesNotAlias(t *testing.T) {
	base := domain.NewDefaultConfig()
	base.HTTP.CORS = []string{"a"}

	merged := mergeConfigs(base, &domain.Config{})
	merged.HTTP.CORS[0] = "b"

	assert.Equal(t, "a", base.HTTP.CORS[0])
}
