package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps config in process memory. Used by the CLI and tests.
type MemoryBackend struct {
	mu     sync.RWMutex
	config map[string]interface{}
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{config: make(map[string]interface{})}
}

func (m *MemoryBackend) Initialize(ctx context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }

func (m *MemoryBackend) Health(ctx context.Context) error { return nil }

func (m *MemoryBackend) GetConfig(ctx context.Context, key string) (interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.config[key]
	if !ok {
		return nil, &ErrNotFound{Key: key}
	}
	return v, nil
}

func (m *MemoryBackend) SetConfig(ctx context.Context, key string, value interface{}) error {
	m.mu.Lock()
	m.config[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) DeleteConfig(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.config[key]; !ok {
		return &ErrNotFound{Key: key}
	}
	delete(m.config, key)
	return nil
}

func (m *MemoryBackend) ListConfigs(ctx context.Context) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]interface{}, len(m.config))
	for k, v := range m.config {
		out[k] = v
	}
	return out, nil
}
