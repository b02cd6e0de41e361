package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/queue"
	"github.com/barberbook/barberbook/internal/repository"
)

// DefaultEarningsDays is the window of the earnings summary.
const DefaultEarningsDays = 30

// Enqueuer accepts background notification jobs. Implemented by queue.PriorityQueue.
type Enqueuer interface {
	Enqueue(job queue.Job) error
}

// AppointmentService owns appointment bookkeeping and the dashboard figures.
type AppointmentService struct {
	repo           repository.AppointmentRepository
	q              Enqueuer
	notifyOnCreate bool
	loc            *time.Location
	now            func() time.Time
	logger         *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	q Enqueuer,
	notifyOnCreate bool,
	loc *time.Location,
	logger *zap.Logger,
) *AppointmentService {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentService{
		repo:           repo,
		q:              q,
		notifyOnCreate: notifyOnCreate,
		loc:            loc,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *AppointmentService) List(ctx context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error) {
	if f.From != nil {
		if err := domain.ValidateDate(*f.From); err != nil {
			return nil, err
		}
	}
	if f.To != nil {
		if err := domain.ValidateDate(*f.To); err != nil {
			return nil, err
		}
	}
	if f.Status != nil && !f.Status.IsValid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "is not a known status"}
	}
	return s.repo.List(ctx, f)
}

func (s *AppointmentService) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists the appointment and, when enabled, queues a confirmation
// text. Creation succeeds whatever happens to the notification.
func (s *AppointmentService) Create(ctx context.Context, in domain.AppointmentInput) (*domain.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a := fromInput(uuid.New().String(), in)
	a.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("persist appointment: %w", err)
	}

	if s.notifyOnCreate {
		s.enqueueConfirmation(a)
	}
	return a, nil
}

func (s *AppointmentService) Update(ctx context.Context, id string, in domain.AppointmentInput) (*domain.Appointment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	a := fromInput(id, in)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Stats runs the four dashboard queries concurrently.
func (s *AppointmentService) Stats(ctx context.Context) (*domain.Stats, error) {
	var st domain.Stats
	today := s.today()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Today, err = s.repo.CountByDate(gctx, today)
		return err
	})
	g.Go(func() (err error) {
		st.Scheduled, err = s.repo.CountByStatus(gctx, domain.AppointmentScheduled)
		return err
	})
	g.Go(func() (err error) {
		st.Total, err = s.repo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.Earnings, err = s.repo.CompletedEarnings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("appointment stats: %w", err)
	}
	return &st, nil
}

// Earnings returns completed earnings per day for the last days days, newest first.
func (s *AppointmentService) Earnings(ctx context.Context, days int) ([]*domain.EarningsDay, error) {
	if days <= 0 {
		days = DefaultEarningsDays
	}
	since := s.now().In(s.loc).AddDate(0, 0, -(days - 1)).Format(domain.DateLayout)
	return s.repo.Earnings(ctx, since)
}

// ---- private helpers ----

func (s *AppointmentService) today() string {
	return s.now().In(s.loc).Format(domain.DateLayout)
}

func (s *AppointmentService) enqueueConfirmation(a *domain.Appointment) {
	job := queue.ConfirmationJob(domain.ConfirmationRequest{
		ClientName: a.ClientName,
		Date:       a.Date,
		Time:       a.Time,
		Duration:   a.Duration,
		Price:      a.Price,
	})
	if err := s.q.Enqueue(job); err != nil {
		s.logger.Warn("confirmation not queued",
			zap.String("appointment_id", a.ID), zap.Error(err))
		return
	}
	s.logger.Info("confirmation queued",
		zap.String("appointment_id", a.ID), zap.String("job_id", job.ID))
}

func fromInput(id string, in domain.AppointmentInput) *domain.Appointment {
	return &domain.Appointment{
		ID:       id,
		ClientID: in.ClientID,
		Title:    in.Title,
		Date:     in.Date,
		Time:     in.Time,
		Duration: in.Duration,
		Price:    in.Price,
		Notes:    in.Notes,
		Status:   in.Status,
	}
}
