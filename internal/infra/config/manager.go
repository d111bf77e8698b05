package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/kanban/internal/domain"
)

// Manager manages the config file of a data directory.
type Manager struct {
	path string // Path to config.toml
}

// NewManager creates a Manager for the config file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Info returns the path and content of the config file.
func (m *Manager) Info() domain.ConfigInfo {
	info := domain.ConfigInfo{Path: m.path}
	content, err := os.ReadFile(m.path)
	if err == nil {
		info.Content = string(content)
		info.Exists = true
	}
	return info
}

// Init writes cfg to the config file. An existing file is left alone
// and domain.ErrConfigExists is returned.
func (m *Manager) Init(cfg *domain.Config) error {
	if _, err := os.Stat(m.path); err == nil {
		return domain.ErrConfigExists
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	content, err := Render(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(m.path, content, 0o600)
}

// Render encodes cfg as TOML.
func Render(cfg *domain.Config) ([]byte, error) {
	content, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return content, nil
}
