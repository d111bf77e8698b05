// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/kanban/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from a TOML file and the environment.
type Loader struct {
	path   string // Path to config.toml
	useEnv bool   // Apply KANBAN_* environment overrides
}

// NewLoader creates a Loader reading path and applying environment overrides.
func NewLoader(path string) *Loader {
	return &Loader{path: path, useEnv: true}
}

// NewFileLoader creates a Loader that ignores the environment.
// This is useful for testing.
func NewFileLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the merged configuration.
// Precedence: defaults <- file <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	base := domain.NewDefaultConfig()

	file, err := l.loadFile()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if file != nil {
		base = mergeConfigs(base, file)
	}

	if l.useEnv {
		env, err := LoadEnv()
		if err != nil {
			return nil, err
		}
		env.apply(base)
	}

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return base, nil
}

// loadFile decodes the TOML file. Unknown keys are rejected.
func (l *Loader) loadFile() (*domain.Config, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var cfg domain.Config
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parse %s: %s", l.path, strict.String())
		}
		return nil, fmt.Errorf("parse %s: %w", l.path, err)
	}
	return &cfg, nil
}

// mergeConfigs merges two configs, with non-zero override fields taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.HTTP.CORS = append([]string(nil), base.HTTP.CORS...)

	if override.Store.Backend != "" {
		result.Store.Backend = override.Store.Backend
	}
	if override.Store.Blob != "" {
		result.Store.Blob = override.Store.Blob
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Store.Namespace != "" {
		result.Store.Namespace = override.Store.Namespace
	}
	if override.Store.Repo != "" {
		result.Store.Repo = override.Store.Repo
	}
	if override.Store.S3.Bucket != "" {
		result.Store.S3.Bucket = override.Store.S3.Bucket
	}
	if override.Store.S3.Prefix != "" {
		result.Store.S3.Prefix = override.Store.S3.Prefix
	}
	if override.Store.S3.Region != "" {
		result.Store.S3.Region = override.Store.S3.Region
	}
	if override.HTTP.Host != "" {
		result.HTTP.Host = override.HTTP.Host
	}
	if override.HTTP.Port != 0 {
		result.HTTP.Port = override.HTTP.Port
	}
	if len(override.HTTP.CORS) > 0 {
		result.HTTP.CORS = append([]string(nil), override.HTTP.CORS...)
	}
	if override.Snapshot.Schedule != "" {
		result.Snapshot.Schedule = override.Snapshot.Schedule
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.History.Capacity != 0 {
		result.History.Capacity = override.History.Capacity
	}

	return &result
}
