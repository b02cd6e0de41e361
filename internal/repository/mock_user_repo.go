package repository

import (
	"context"
	"sync"

	"github.com/barberbook/barberbook/internal/domain"
)

// MockUserRepository is a hand-written, in-memory UserRepository for unit tests.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepository) Upsert(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.Username]; ok {
		u.ID, u.CreatedAt = existing.ID, existing.CreatedAt
	}
	clone := *u
	m.users[u.Username] = &clone
	return nil
}

var _ UserRepository = (*MockUserRepository)(nil)
