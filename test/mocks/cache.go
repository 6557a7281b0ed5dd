package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockStatsCache is an in-memory mock implementation of the statistics cache
// Used for testing without requiring a real Redis instance
type MockStatsCache struct {
	data    map[string][]byte
	version int64
	mu      sync.RWMutex

	// GetErr and SetErr, when set, are returned by Get and Set.
	GetErr error
	SetErr error

	Hits          int
	Misses        int
	Sets          int
	Invalidations int
}

// NewMockStatsCache creates a new mock cache instance
func NewMockStatsCache() *MockStatsCache {
	return &MockStatsCache{data: make(map[string][]byte)}
}

func key(version int64, name string) string {
	return fmt.Sprintf("v%d:%s", version, name)
}

// Get loads a snapshot stored under the current version.
func (m *MockStatsCache) Get(_ context.Context, name string, dest interface{}) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return 0, false, m.GetErr
	}

	raw, ok := m.data[key(m.version, name)]
	if !ok {
		m.Misses++
		return m.version, false, nil
	}
	m.Hits++
	return m.version, true, json.Unmarshal(raw, dest)
}

// Set stores a snapshot under the given version.
func (m *MockStatsCache) Set(_ context.Context, version int64, name string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.Sets++
	m.data[key(version, name)] = raw
	return nil
}

// Invalidate bumps the version.
func (m *MockStatsCache) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.version++
	m.Invalidations++
	return nil
}
