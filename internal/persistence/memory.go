package persistence

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV implementation used in tests and local
// development where no Redis is available.
type MemoryKV struct {
	mu   sync.RWMutex
	docs map[string][]byte
	// FailNext forces the next operation to return this error, letting tests
	// exercise the StoreUnavailable path.
	FailNext error
}

// NewMemoryKV returns an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{docs: make(map[string][]byte)}
}

func (m *MemoryKV) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.docs[key] = cp
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	delete(m.docs, key)
	return nil
}
