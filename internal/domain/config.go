package domain

import (
	"fmt"
	"path/filepath"
)

// Configuration file and directory names.
const (
	ConfigFileName  = "config.toml"
	LogsDirName     = "logs"
	LogFileName     = "kanban.log"
	DefaultDataDir  = ".kanban"
	DefaultLogLevel = "info"
)

// Store backends.
const (
	BackendCSV = "csv"
	BackendGit = "git"
)

// Blob storage kinds for the CSV backend.
const (
	BlobLocal = "local"
	BlobS3    = "s3"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	HTTP     HTTPConfig     `toml:"http"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Log      LogConfig      `toml:"log"`
	History  HistoryConfig  `toml:"history"`
}

// StoreConfig holds backup settings from the [store] section.
type StoreConfig struct {
	S3        S3Config `toml:"s3"`
	Backend   string   `toml:"backend,omitempty"`   // "csv" (default) or "git"
	Blob      string   `toml:"blob,omitempty"`      // CSV target: "local" (default) or "s3"
	Path      string   `toml:"path,omitempty"`      // CSV object key relative to the blob root
	Namespace string   `toml:"namespace,omitempty"` // Git ref namespace (refs/<namespace>/backup)
	Repo      string   `toml:"repo,omitempty"`      // Git repository path (default: data dir)
}

// S3Config holds Amazon S3 settings from the [store.s3] section.
type S3Config struct {
	Bucket string `toml:"bucket,omitempty"`
	Prefix string `toml:"prefix,omitempty"`
	Region string `toml:"region,omitempty"`
}

// HTTPConfig holds server settings from the [http] section.
type HTTPConfig struct {
	Host string   `toml:"host,omitempty"`
	CORS []string `toml:"cors,omitempty"` // Allowed origins (empty = CORS disabled)
	Port int      `toml:"port,omitempty"`
}

// SnapshotConfig holds the snapshot schedule from the [snapshot] section.
type SnapshotConfig struct {
	Schedule string `toml:"schedule,omitempty"` // cron spec, empty = disabled
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // debug, info, warn, error
}

// HistoryConfig holds visit history settings from the [history] section.
type HistoryConfig struct {
	Capacity int `toml:"capacity,omitempty"` // 0 = unbounded
}

// Default values.
const (
	DefaultBackupPath = "backup.csv"
	DefaultNamespace  = "kanban"
	DefaultHTTPHost   = "127.0.0.1"
	DefaultHTTPPort   = 8080
	DefaultS3Region   = "us-east-1"
)

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   BackendCSV,
			Blob:      BlobLocal,
			Path:      DefaultBackupPath,
			Namespace: DefaultNamespace,
			S3: S3Config{
				Region: DefaultS3Region,
			},
		},
		HTTP: HTTPConfig{
			Host: DefaultHTTPHost,
			Port: DefaultHTTPPort,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendCSV, BackendGit:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.Store.Blob {
	case BlobLocal:
	case BlobS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket: required when store.blob is %q", BlobS3)
		}
	default:
		return fmt.Errorf("store.blob: unknown blob storage %q", c.Store.Blob)
	}
	if c.History.Capacity < 0 {
		return fmt.Errorf("history.capacity: must not be negative, got %d", c.History.Capacity)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port: out of range: %d", c.HTTP.Port)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConfigLoader loads configuration.
type ConfigLoader interface {
	// Load returns the merged configuration.
	Load() (*Config, error)
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigPath returns the config file path inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// LogPath returns the log file path inside a data directory.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDirName, LogFileName)
}
