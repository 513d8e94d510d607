package blob

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
)

// Memory is an in-memory Store for tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory blob store.
func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[k] = data
	return nil
}

func (m *Memory) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[k]
	if !ok {
		return nil, ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, k)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[k]
	return ok, nil
}

// Keys lists stored keys sorted, for test assertions.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var _ Store = (*Memory)(nil)
