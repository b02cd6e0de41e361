package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/queue"
	"github.com/barberbook/barberbook/internal/repository"
	"github.com/barberbook/barberbook/internal/service"
)

func newAppointmentService(notify bool) (*service.AppointmentService, *repository.MockAppointmentRepository, *queue.PriorityQueue) {
	clients := repository.NewMockClientRepository()
	_ = clients.Create(context.Background(), &domain.Client{ID: "c-1", Name: "Jane"})
	repo := repository.NewMockAppointmentRepository(clients)
	q := queue.New(1, 1)
	return service.NewAppointmentService(repo, q, notify, time.UTC, zap.NewNop()), repo, q
}

var validAppointment = domain.AppointmentInput{
	ClientID: "c-1",
	Title:    "Fade",
	Date:     "2025-01-17",
	Time:     "09:00",
	Duration: 45,
	Price:    35,
}

func TestAppointmentService_Create(t *testing.T) {
	svc, _, q := newAppointmentService(false)

	a, err := svc.Create(context.Background(), validAppointment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" || a.ClientName != "Jane" || a.Status != domain.AppointmentScheduled {
		t.Fatalf("unexpected appointment %+v", a)
	}
	if high, normal := q.Depths(); high+normal != 0 {
		t.Fatal("expected no confirmation queued when notifications are off")
	}
}

func TestAppointmentService_CreateQueuesConfirmation(t *testing.T) {
	svc, _, q := newAppointmentService(true)

	if _, err := svc.Create(context.Background(), validAppointment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job, ok := q.Dequeue(context.Background())
	if !ok || job.Kind != domain.KindConfirmation {
		t.Fatalf("expected a confirmation job, got %+v", job)
	}
	c := job.Confirmation
	if c.ClientName != "Jane" || c.Date != "2025-01-17" || c.Time != "09:00" || c.Duration != 45 {
		t.Fatalf("unexpected confirmation payload %+v", c)
	}
}

func TestAppointmentService_CreateSucceedsWhenQueueFull(t *testing.T) {
	svc, _, _ := newAppointmentService(true)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validAppointment); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.Create(ctx, validAppointment); err != nil {
		t.Fatalf("expected creation to ignore a full queue, got %v", err)
	}
}

func TestAppointmentService_CreateInvalid(t *testing.T) {
	svc, _, _ := newAppointmentService(false)

	bad := validAppointment
	bad.Time = "25:00"
	if _, err := svc.Create(context.Background(), bad); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	unknown := validAppointment
	unknown.ClientID = "nobody"
	if _, err := svc.Create(context.Background(), unknown); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown client, got %v", err)
	}
}

func TestAppointmentService_UpdateAndDelete(t *testing.T) {
	svc, _, _ := newAppointmentService(false)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validAppointment)

	in := validAppointment
	in.Status = domain.AppointmentCompleted
	updated, err := svc.Update(ctx, a.ID, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != domain.AppointmentCompleted || updated.CreatedAt != a.CreatedAt {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAppointmentService_ListFilter(t *testing.T) {
	svc, _, _ := newAppointmentService(false)
	ctx := context.Background()

	for _, d := range []string{"2025-01-16", "2025-01-17", "2025-01-18"} {
		in := validAppointment
		in.Date = d
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	from, to := "2025-01-17", "2025-01-18"
	got, err := svc.List(ctx, domain.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2025-01-17" {
		t.Fatalf("unexpected listing %+v", got)
	}

	bad := "17/01/2025"
	if _, err := svc.List(ctx, domain.AppointmentFilter{From: &bad}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAppointmentService_Stats(t *testing.T) {
	svc, _, _ := newAppointmentService(false)
	ctx := context.Background()
	today := time.Now().UTC().Format(domain.DateLayout)

	for _, tc := range []struct {
		date   string
		status domain.AppointmentStatus
		price  float64
	}{
		{today, domain.AppointmentScheduled, 30},
		{today, domain.AppointmentCompleted, 40},
		{"2020-01-01", domain.AppointmentCompleted, 25.5},
		{"2020-01-02", domain.AppointmentCancelled, 99},
	} {
		in := validAppointment
		in.Date, in.Status, in.Price = tc.date, tc.status, tc.price
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Stats{Today: 2, Scheduled: 1, Total: 4, Earnings: 65.5}
	if *st != want {
		t.Fatalf("expected %+v, got %+v", want, *st)
	}
}

func TestAppointmentService_StatsError(t *testing.T) {
	svc, repo, _ := newAppointmentService(false)
	repo.CountErr = errors.New("db down")

	if _, err := svc.Stats(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestAppointmentService_Earnings(t *testing.T) {
	svc, _, _ := newAppointmentService(false)
	ctx := context.Background()
	today := time.Now().UTC().Format(domain.DateLayout)

	for _, d := range []string{today, today, "2001-01-01"} {
		in := validAppointment
		in.Date, in.Status = d, domain.AppointmentCompleted
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	days, err := svc.Earnings(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 || days[0].Date != today || days[0].Amount != 70 || days[0].Appointments != 2 {
		t.Fatalf("unexpected earnings %+v", days)
	}
}
