package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vnovel/novella/pkg/save"
	"github.com/vnovel/novella/pkg/script"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	states    map[uuid.UUID]*save.State
	scripts   map[string]*script.Program
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		states:  make(map[uuid.UUID]*save.State),
		scripts: make(map[string]*script.Program),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// AddScript registers a parsed program under its name
func (m *MockStorage) AddScript(prog *script.Program) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[prog.Name] = prog
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) ListScripts(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.scripts))
	for name := range m.scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockStorage) GetScript(ctx context.Context, name string) (*script.Program, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prog, ok := m.scripts[name]
	if !ok {
		return nil, fmt.Errorf("script not found: %s", name)
	}
	return prog, nil
}

func (m *MockStorage) SaveState(ctx context.Context, st *save.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st.UpdatedAt = time.Now()
	m.states[st.ID] = st
	return nil
}

func (m *MockStorage) LoadState(ctx context.Context, id uuid.UUID) (*save.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[id], nil
}

func (m *MockStorage) ListStates(ctx context.Context) ([]*save.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	states := make([]*save.State, 0, len(m.states))
	for _, st := range m.states {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].UpdatedAt.After(states[j].UpdatedAt)
	})
	return states, nil
}

func (m *MockStorage) DeleteState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}
