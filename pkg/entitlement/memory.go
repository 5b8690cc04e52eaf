package entitlement

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	owned map[string]map[string]struct{}
	err   error
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{owned: make(map[string]map[string]struct{})}
}

// SetError makes every call fail with err.
func (m *MemoryStore) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryStore) Owned(ctx context.Context, playerID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]string, 0, len(m.owned[playerID]))
	for p := range m.owned[playerID] {
		out = append(out, p)
	}
	slices.Sort(out)
	return out, nil
}

func (m *MemoryStore) Grant(ctx context.Context, playerID, product string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	set, ok := m.owned[playerID]
	if !ok {
		set = make(map[string]struct{})
		m.owned[playerID] = set
	}
	if _, dup := set[product]; dup {
		return false, nil
	}
	set[product] = struct{}{}
	return true, nil
}
