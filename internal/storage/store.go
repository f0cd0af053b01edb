package storage

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a key is not present in the store
var ErrNotFound = errors.New("key not found")

// Store is a small persistent key-value surface, the client-side analog of
// a browser's local storage. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key or ErrNotFound
	Get(key string) (string, error)

	// Set stores value under key, overwriting any previous value
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// MemoryStore keeps values in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
