package store

import (
	"context"
	"sync"

	"github.com/lifelab-app/lifelab/internal/domain"
)

var errUnavailable = domain.ErrStorageUnavailable

// Memory is an in-memory Provider backing tests across the feature packages.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailSaves / FailFetches make the provider error, for failure-path tests.
	FailSaves   bool
	FailFetches bool
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Init is a no-op.
func (m *Memory) Init(ctx context.Context) error { return nil }

// Save stores a copy of value under collection.
func (m *Memory) Save(ctx context.Context, collection string, value []byte) error {
	if m.FailSaves {
		return errUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[collection] = cp
	return nil
}

// Fetch returns a copy of the stored value, nil when absent.
func (m *Memory) Fetch(ctx context.Context, collection string) ([]byte, error) {
	if m.FailFetches {
		return nil, errUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[collection]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

// Collections lists stored keys.
func (m *Memory) Collections(ctx context.Context) ([]string, error) {
	if m.FailFetches {
		return nil, errUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Export returns a copy of every collection.
func (m *Memory) Export(ctx context.Context) (map[string][]byte, error) {
	if m.FailFetches {
		return nil, errUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		cp := make([]byte, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out, nil
}

// Len returns the number of stored collections.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
