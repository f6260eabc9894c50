package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is an in-process Store bounded to maxEntries keys. Contents are
// lost on restart. It is safe for concurrent use.
type Memory struct {
	cache *lru.Cache[string, string]
}

// NewMemory creates a Memory store.
func NewMemory(maxEntries int) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Memory{cache: c}, nil
}

func (m *Memory) MGet(_ context.Context, keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i], _ = m.cache.Get(k)
	}
	return out, nil
}

func (m *Memory) MSet(_ context.Context, pairs map[string]string) error {
	for k, v := range pairs {
		m.cache.Add(k, v)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.cache.Len()
}
