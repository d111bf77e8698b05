// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockLogger is a test double for domain.Logger that records each line.
type MockLogger struct {
	Lines []string
	mu    sync.Mutex
}

func (m *MockLogger) record(level string, id int, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, fmt.Sprintf("%s #%d %s: %s", level, id, category, msg))
}

func (m *MockLogger) Info(id int, category, msg string)  { m.record("INFO", id, category, msg) }
func (m *MockLogger) Debug(id int, category, msg string) { m.record("DEBUG", id, category, msg) }
func (m *MockLogger) Warn(id int, category, msg string)  { m.record("WARN", id, category, msg) }
func (m *MockLogger) Error(id int, category, msg string) { m.record("ERROR", id, category, msg) }

// MockBackup is a test double for domain.Backup and domain.Snapshotter.
// Fields are ordered to minimize memory padding.
type MockBackup struct {
	SaveErr error
	LoadErr error
	Records []domain.Record
	Snaps   []string
	Saves   int
	mu      sync.Mutex
}

// Save stores a copy of records unless SaveErr is set.
func (m *MockBackup) Save(_ context.Context, records []domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Records = slices.Clone(records)
	m.Saves++
	return nil
}

// Load returns the stored records unless LoadErr is set.
func (m *MockBackup) Load(_ context.Context) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return slices.Clone(m.Records), nil
}

// Snapshot records a snapshot name derived from at.
func (m *MockBackup) Snapshot(_ context.Context, at time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	name := at.UTC().Format("20060102T150405Z")
	m.Snaps = append(m.Snaps, name)
	return name, nil
}

// Snapshots returns the recorded snapshot names.
func (m *MockBackup) Snapshots(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Snaps), nil
}

// SaveCount returns how many saves succeeded.
func (m *MockBackup) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}
