package logging

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/kanban/internal/domain"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	} {
		assert.Equal(t, want, ParseLevel(name), "level %q", name)
	}
}

func TestLogger_Info(t *testing.T) {
	// Setup
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)
	logger.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Info(1, "task", "added")
	logger.Warn(0, "backup", "slow save")

	// Assert
	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2025-01-02 03:04:05] [INFO] [#1] [task] added", lines[0])
	assert.Equal(t, "[2025-01-02 03:04:05] [WARN] [global] [backup] slow save", lines[1])
}

func TestLogger_LevelFiltering(t *testing.T) {
	// Setup
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Debug(3, "epic", "recomputed")
	logger.Info(3, "epic", "saved")
	logger.Error(3, "epic", "backup failed")

	// Assert
	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Equal(t, "[ERROR] [#3] [epic] backup failed", string(content)[22:len(content)-1])
}

func TestLogger_Disabled(t *testing.T) {
	logger := New("", slog.LevelDebug)

	logger.Info(1, "task", "dropped")

	assert.NoError(t, logger.Close())
}

func TestLogger_ReopenAfterClose(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, slog.LevelInfo)

	logger.Info(1, "task", "first")
	require.NoError(t, logger.Close())
	logger.Info(2, "task", "second")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "first")
	assert.Contains(t, string(content), "second")
}
