package store

import (
	"sync"

	"github.com/klisp-lang/klisp/internal/value"
)

// Memory is an in-memory store, used by tests and by embedders through
// klisp.WithMemoryStore. The CLI always uses SQLite (klisp.db unless --db
// names another path).
type Memory struct {
	mu   sync.RWMutex
	data map[string]value.Value
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]value.Value)}
}

func (m *Memory) Get(name string) (value.Value, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	return v, ok, nil
}

func (m *Memory) Put(name string, v value.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = v
	return nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error {
	return nil
}
