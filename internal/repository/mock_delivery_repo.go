package repository

import (
	"context"
	"sync"

	"github.com/barberbook/barberbook/internal/domain"
)

// MockDeliveryRepository is a hand-written, in-memory DeliveryRepository for unit tests.
type MockDeliveryRepository struct {
	mu         sync.RWMutex
	deliveries []*domain.Delivery
	runs       []*domain.DigestRun

	RecordErr     error
	DigestSentErr error
}

func NewMockDeliveryRepository() *MockDeliveryRepository {
	return &MockDeliveryRepository{}
}

func (m *MockDeliveryRepository) Record(_ context.Context, deliveries []*domain.Delivery) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range deliveries {
		clone := *d
		m.deliveries = append(m.deliveries, &clone)
	}
	return nil
}

// Recent returns the newest deliveries first.
func (m *MockDeliveryRepository) Recent(_ context.Context, limit int) ([]*domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Delivery{}
	for i := len(m.deliveries) - 1; i >= 0 && len(out) < limit; i-- {
		clone := *m.deliveries[i]
		out = append(out, &clone)
	}
	return out, nil
}

func (m *MockDeliveryRepository) RecordDigestRun(_ context.Context, run *domain.DigestRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *run
	m.runs = append(m.runs, &clone)
	return nil
}

func (m *MockDeliveryRepository) DigestSent(_ context.Context, date string) (bool, error) {
	if m.DigestSentErr != nil {
		return false, m.DigestSentErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.RunDate == date && r.Success {
			return true, nil
		}
	}
	return false, nil
}

// Deliveries returns every recorded part in insertion order.
func (m *MockDeliveryRepository) Deliveries() []*domain.Delivery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Delivery, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}

// Runs returns every recorded digest run in insertion order.
func (m *MockDeliveryRepository) Runs() []*domain.DigestRun {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.DigestRun, len(m.runs))
	copy(out, m.runs)
	return out
}

var _ DeliveryRepository = (*MockDeliveryRepository)(nil)
