package store

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Backend used by tests and --backend memory.
type Memory struct {
	mu      sync.RWMutex
	data    map[string][]byte
	written map[string]time.Time
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte), written: make(map[string]time.Time)}
}

// Get implements Backend.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Backend.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.written[key] = time.Now().UTC()
	return nil
}

// Keys implements Lister.
func (m *Memory) Keys(_ context.Context) (map[string]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]time.Time, len(m.written))
	for k, t := range m.written {
		out[k] = t
	}
	return out, nil
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }
