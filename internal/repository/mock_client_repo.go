package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/barberbook/barberbook/internal/domain"
)

// MockClientRepository is a hand-written, in-memory ClientRepository for unit tests.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	// Optional error overrides; set in tests to simulate failure paths.
	ListErr   error
	CreateErr error
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[string]*domain.Client)}
}

func (m *MockClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockClientRepository) GetByID(_ context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockClientRepository) Create(_ context.Context, c *domain.Client) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *c
	m.clients[c.ID] = &clone
	return nil
}

func (m *MockClientRepository) Update(_ context.Context, c *domain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.clients[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	clone := *c
	m.clients[c.ID] = &clone
	return nil
}

func (m *MockClientRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

var _ ClientRepository = (*MockClientRepository)(nil)
