package repository

import (
	"context"

	"github.com/barberbook/barberbook/internal/domain"
)

// The pgx implementations live in the pg_*_repo.go files.
// Tests use the hand-written in-memory mocks in mock_*_repo.go.

// ClientRepository persists the shop's customers.
type ClientRepository interface {
	List(ctx context.Context) ([]*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	Create(ctx context.Context, c *domain.Client) error
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// AppointmentRepository persists appointments. Reads join the client name.
type AppointmentRepository interface {
	// List returns the appointments matching f, ordered by date then time.
	List(ctx context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Create(ctx context.Context, a *domain.Appointment) error
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) error

	CountByDate(ctx context.Context, date string) (int, error)
	CountByStatus(ctx context.Context, status domain.AppointmentStatus) (int, error)
	Count(ctx context.Context) (int, error)
	CompletedEarnings(ctx context.Context) (float64, error)
	// Earnings returns the daily earnings summary since the given date, newest first.
	Earnings(ctx context.Context, since string) ([]*domain.EarningsDay, error)
}

// DeliveryRepository keeps the per-part delivery log and the digest-run markers.
type DeliveryRepository interface {
	Record(ctx context.Context, deliveries []*domain.Delivery) error
	Recent(ctx context.Context, limit int) ([]*domain.Delivery, error)
	RecordDigestRun(ctx context.Context, run *domain.DigestRun) error
	// DigestSent reports whether a successful digest already went out for date.
	DigestSent(ctx context.Context, date string) (bool, error)
}

// UserRepository stores the owner account.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Upsert inserts the user or replaces the password hash of an existing username.
	Upsert(ctx context.Context, u *domain.User) error
}
