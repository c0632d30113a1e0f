package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nathoo/rulekit/engine/save"
	"github.com/nathoo/rulekit/types"
)

// MemoryStore is an in-process Store used when no Redis address is
// configured, and in tests. Scripts are held encoded so callers never
// share memory with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	scripts   map[uuid.UUID][]byte
	pingError error
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scripts: make(map[uuid.UUID][]byte)}
}

// SetPingError makes Ping fail with err; nil restores success.
func (m *MemoryStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Create(ctx context.Context, g *types.GameScript) (uuid.UUID, error) {
	data, err := save.EncodeScript(g)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal script: %w", err)
	}
	id := uuid.New()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[id] = data
	return id, nil
}

func (m *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*types.GameScript, error) {
	m.mu.RLock()
	data, ok := m.scripts[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return save.DecodeScript(data)
}

func (m *MemoryStore) Update(ctx context.Context, id uuid.UUID, g *types.GameScript) error {
	data, err := save.EncodeScript(g)
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scripts[id]; !ok {
		return ErrNotFound
	}
	m.scripts[id] = data
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scripts[id]; !ok {
		return ErrNotFound
	}
	delete(m.scripts, id)
	return nil
}
