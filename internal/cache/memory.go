package cache

import "sync"

// Memory is an in-memory cache for testing and one-shot builds.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Entry
}

// NewMemory creates a new in-memory cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]Entry)}
}

// Get retrieves an entry by slug.
func (m *Memory) Get(slug string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.data[slug]; ok {
		return &e, nil
	}
	return nil, nil
}

// Put stores an entry by slug.
func (m *Memory) Put(slug string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[slug] = e
	return nil
}

// Delete removes an entry by slug.
func (m *Memory) Delete(slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, slug)
	return nil
}

// Close is a no-op for the memory cache.
func (m *Memory) Close() error {
	return nil
}
