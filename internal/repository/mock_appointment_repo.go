package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/barberbook/barberbook/internal/domain"
)

// MockAppointmentRepository is a hand-written, in-memory AppointmentRepository
// for unit tests. Client names are resolved through Clients when set.
type MockAppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[string]*domain.Appointment

	Clients *MockClientRepository

	// Optional error overrides; set in tests to simulate failure paths.
	ListErr   error
	CreateErr error
	CountErr  error
}

func NewMockAppointmentRepository(clients *MockClientRepository) *MockAppointmentRepository {
	return &MockAppointmentRepository{
		appointments: make(map[string]*domain.Appointment),
		Clients:      clients,
	}
}

func (m *MockAppointmentRepository) List(_ context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Appointment{}
	for _, a := range m.appointments {
		if f.From != nil && a.Date < *f.From {
			continue
		}
		if f.To != nil && a.Date > *f.To {
			continue
		}
		if f.Status != nil && a.Status != *f.Status {
			continue
		}
		out = append(out, m.withName(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *MockAppointmentRepository) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.withName(a), nil
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := m.checkClient(ctx, a); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *a
	m.appointments[a.ID] = &clone
	return nil
}

func (m *MockAppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	m.mu.Lock()
	existing, ok := m.appointments[a.ID]
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	if err := m.checkClient(ctx, a); err != nil {
		return err
	}
	a.CreatedAt = existing.CreatedAt
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *a
	m.appointments[a.ID] = &clone
	return nil
}

func (m *MockAppointmentRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *MockAppointmentRepository) CountByDate(_ context.Context, date string) (int, error) {
	return m.count(func(a *domain.Appointment) bool { return a.Date == date })
}

func (m *MockAppointmentRepository) CountByStatus(_ context.Context, status domain.AppointmentStatus) (int, error) {
	return m.count(func(a *domain.Appointment) bool { return a.Status == status })
}

func (m *MockAppointmentRepository) Count(_ context.Context) (int, error) {
	return m.count(func(*domain.Appointment) bool { return true })
}

func (m *MockAppointmentRepository) CompletedEarnings(_ context.Context) (float64, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, a := range m.appointments {
		if a.Status == domain.AppointmentCompleted {
			total += a.Price
		}
	}
	return total, nil
}

func (m *MockAppointmentRepository) Earnings(_ context.Context, since string) ([]*domain.EarningsDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byDate := map[string]*domain.EarningsDay{}
	for _, a := range m.appointments {
		if a.Status != domain.AppointmentCompleted || a.Date < since {
			continue
		}
		d, ok := byDate[a.Date]
		if !ok {
			d = &domain.EarningsDay{Date: a.Date}
			byDate[a.Date] = d
		}
		d.Amount += a.Price
		d.Appointments++
	}
	out := make([]*domain.EarningsDay, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *MockAppointmentRepository) count(match func(*domain.Appointment) bool) (int, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.appointments {
		if match(a) {
			n++
		}
	}
	return n, nil
}

func (m *MockAppointmentRepository) checkClient(ctx context.Context, a *domain.Appointment) error {
	if m.Clients == nil {
		return nil
	}
	c, err := m.Clients.GetByID(ctx, a.ClientID)
	if err != nil {
		return &domain.ValidationError{Field: "clientId", Reason: "does not exist"}
	}
	a.ClientName = c.Name
	return nil
}

// withName copies a and fills ClientName; callers hold m.mu.
func (m *MockAppointmentRepository) withName(a *domain.Appointment) *domain.Appointment {
	clone := *a
	if m.Clients != nil {
		if c, err := m.Clients.GetByID(context.Background(), a.ClientID); err == nil {
			clone.ClientName = c.Name
		}
	}
	return &clone
}

var _ AppointmentRepository = (*MockAppointmentRepository)(nil)
