package nstree

import (
	"slices"
	"sync"
)

// MemBackend is a transient in-memory Backend, useful for tests and for
// callers who want the object model without durability.
type MemBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemBackend() *MemBackend {
	return &MemBackend{entries: make(map[string][]byte)}
}

func (b *MemBackend) Get(key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(data), true, nil
}

func (b *MemBackend) Set(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = slices.Clone(data)
	return nil
}

func (b *MemBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

// Len returns the number of stored entries.
func (b *MemBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
