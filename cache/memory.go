package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the number of keys kept by NewMemory(0).
const DefaultMemorySize = 1024

// Memory is a Store held in memory. It keeps at most size keys, evicting
// the least recently used.
type Memory struct {
	mu     sync.Mutex
	lru    *lru.Cache[string, []byte]
	closed bool
}

func NewMemory(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	c, _ := lru.New[string, []byte](size)
	return &Memory{lru: c}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.lru.Add(key, append([]byte(nil), value...))
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
