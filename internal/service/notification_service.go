package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/carrier"
	"github.com/barberbook/barberbook/internal/delivery"
	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/message"
	"github.com/barberbook/barberbook/internal/repository"
)

const (
	SubjectConfirmation = "New Appointment"
	SubjectDigest       = "Daily Appointment Reminder"
	SubjectTest         = "Test SMS"

	DefaultTestMessage = "Test SMS from BarberBook! 💈"
)

// Digest run results, used as metric labels.
const (
	DigestSent    = "sent"
	DigestFailed  = "failed"
	DigestSkipped = "skipped"
)

// Sender delivers an ordered multi-part message. Implemented by delivery.PacedSender.
type Sender interface {
	Send(ctx context.Context, req delivery.Request) *domain.SendOutcome
}

// NotificationConfig is the fixed recipient and digest policy.
type NotificationConfig struct {
	BarberPhone     string
	BarberCarrier   string
	EmailConfigured bool
	// Location decides which calendar day is "today" for the digest.
	Location        *time.Location
	SkipEmptyDigest bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// NotificationService composes, chunks, and sends every notification to the
// barber's gateway address, and records what was delivered.
type NotificationService struct {
	directory    *carrier.Directory
	chunker      *message.Chunker
	sender       Sender
	appointments repository.AppointmentRepository
	deliveries   repository.DeliveryRepository
	cfg          NotificationConfig
	onDigest     func(domain.Trigger, string)
	logger       *zap.Logger
}

// NewNotificationService wires the pipeline. onDigest may be nil.
func NewNotificationService(
	directory *carrier.Directory,
	chunker *message.Chunker,
	sender Sender,
	appointments repository.AppointmentRepository,
	deliveries repository.DeliveryRepository,
	cfg NotificationConfig,
	onDigest func(domain.Trigger, string),
	logger *zap.Logger,
) *NotificationService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if onDigest == nil {
		onDigest = func(domain.Trigger, string) {}
	}
	return &NotificationService{
		directory:    directory,
		chunker:      chunker,
		sender:       sender,
		appointments: appointments,
		deliveries:   deliveries,
		cfg:          cfg,
		onDigest:     onDigest,
		logger:       logger,
	}
}

// SendAppointmentConfirmation texts the barber about one booking.
// Every part is attempted even if an earlier one fails.
func (s *NotificationService) SendAppointmentConfirmation(ctx context.Context, req domain.ConfirmationRequest) *domain.SendOutcome {
	if err := req.Validate(); err != nil {
		return domain.Failed(err)
	}
	to, err := s.gateway()
	if err != nil {
		return domain.Failed(err)
	}
	text, err := message.AppointmentConfirmation(req.ClientName, req.Date, req.Time)
	if err != nil {
		return domain.Failed(err)
	}

	out := s.sender.Send(ctx, delivery.Request{
		Kind:    domain.KindConfirmation,
		To:      to,
		Chunks:  s.chunker.Split(text),
		Subject: delivery.FixedSubject(SubjectConfirmation),
		Policy:  delivery.ContinueOnError,
	})
	s.record(ctx, domain.KindConfirmation, out)
	return out
}

// SendDigest texts the daily summary built from a pre-fetched count and list.
// The first failed part stops the rest.
func (s *NotificationService) SendDigest(ctx context.Context, req domain.DigestRequest, trigger domain.Trigger) *domain.SendOutcome {
	if req.AppointmentCount < 0 {
		return domain.Failed(&domain.ValidationError{Field: "appointmentCount", Reason: "must not be negative"})
	}
	to, err := s.gateway()
	if err != nil {
		return domain.Failed(err)
	}
	text, err := message.DailyDigest(req.AppointmentCount, req.Appointments)
	if err != nil {
		return domain.Failed(err)
	}

	out := s.sender.Send(ctx, delivery.Request{
		Kind:    domain.KindDigest,
		To:      to,
		Chunks:  s.chunker.Split(text),
		Subject: delivery.FixedSubject(SubjectDigest),
		Policy:  delivery.AbortOnError,
	})
	s.record(ctx, domain.KindDigest, out)

	result := DigestFailed
	if out.Success {
		result = DigestSent
	}
	s.onDigest(trigger, result)

	run := &domain.DigestRun{
		RunDate:          s.today(),
		Trigger:          trigger,
		AppointmentCount: req.AppointmentCount,
		Success:          out.Success,
		CreatedAt:        s.cfg.Now().UTC(),
	}
	if err := s.deliveries.RecordDigestRun(ctx, run); err != nil {
		s.logger.Error("failed to record digest run", zap.String("date", run.RunDate), zap.Error(err))
	}
	return out
}

// SendTodayDigest fetches today's appointments and sends the digest.
// A scheduled run is skipped when a digest already went out today, or when
// the day is empty and empty digests are disabled. On-demand runs always send.
// The error is non-nil only when the marker or the appointments could not be read.
func (s *NotificationService) SendTodayDigest(ctx context.Context, trigger domain.Trigger) (*domain.DigestResult, error) {
	today := s.today()
	result := &domain.DigestResult{Date: today, Trigger: trigger}

	if trigger == domain.TriggerScheduled {
		sent, err := s.deliveries.DigestSent(ctx, today)
		if err != nil {
			return nil, fmt.Errorf("check digest marker: %w", err)
		}
		if sent {
			return s.skip(result, "digest already sent today"), nil
		}
	}

	appts, err := s.appointments.List(ctx, domain.AppointmentFilter{From: &today, To: &today})
	if err != nil {
		return nil, fmt.Errorf("fetch today's appointments: %w", err)
	}

	entries := make([]domain.DigestEntry, 0, len(appts))
	for _, a := range appts {
		if a.Status == domain.AppointmentCancelled {
			continue
		}
		entries = append(entries, domain.DigestEntry{ClientName: a.ClientName, Time: a.Time})
	}
	result.AppointmentCount = len(entries)

	if trigger == domain.TriggerScheduled && len(entries) == 0 && s.cfg.SkipEmptyDigest {
		return s.skip(result, "no appointments today"), nil
	}

	result.Outcome = s.SendDigest(ctx, domain.DigestRequest{
		AppointmentCount: len(entries),
		Appointments:     entries,
	}, trigger)
	return result, nil
}

// SendTest sends text unchunked to phone on carrier. Empty arguments fall
// back to the configured barber and the default test message.
func (s *NotificationService) SendTest(ctx context.Context, phone, carrierKey, text string) *domain.SendOutcome {
	phone, carrierKey, text = s.TestDefaults(phone, carrierKey, text)

	to, err := s.directory.ResolveGatewayAddress(phone, carrierKey)
	if err != nil {
		return domain.Failed(err)
	}

	out := s.sender.Send(ctx, delivery.Request{
		Kind:    domain.KindTest,
		To:      to,
		Chunks:  []string{text},
		Subject: delivery.FixedSubject(SubjectTest),
		Policy:  delivery.AbortOnError,
	})
	s.record(ctx, domain.KindTest, out)
	return out
}

// TestDefaults fills empty test-message arguments from configuration.
func (s *NotificationService) TestDefaults(phone, carrierKey, text string) (string, string, string) {
	if phone == "" {
		phone = s.cfg.BarberPhone
	}
	if carrierKey == "" {
		carrierKey = s.cfg.BarberCarrier
	}
	if text == "" {
		text = DefaultTestMessage
	}
	return phone, carrierKey, text
}

// Carriers lists every supported carrier, sorted by key.
func (s *NotificationService) Carriers() []carrier.Entry {
	return s.directory.Entries()
}

// EmailConfigured reports whether the mail transport has credentials.
func (s *NotificationService) EmailConfigured() bool {
	return s.cfg.EmailConfigured
}

// RecentDeliveries returns the newest delivery log entries.
func (s *NotificationService) RecentDeliveries(ctx context.Context, limit int) ([]*domain.Delivery, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.deliveries.Recent(ctx, limit)
}

// ---- private helpers ----

func (s *NotificationService) gateway() (string, error) {
	return s.directory.ResolveGatewayAddress(s.cfg.BarberPhone, s.cfg.BarberCarrier)
}

func (s *NotificationService) today() string {
	return s.cfg.Now().In(s.cfg.Location).Format(domain.DateLayout)
}

func (s *NotificationService) skip(result *domain.DigestResult, reason string) *domain.DigestResult {
	result.Skipped = true
	result.Reason = reason
	s.onDigest(result.Trigger, DigestSkipped)
	s.logger.Info("daily digest skipped",
		zap.String("date", result.Date),
		zap.String("trigger", string(result.Trigger)),
		zap.String("reason", reason))
	return result
}

// record logs one delivery row per part. Failures to persist are logged only:
// the message already reached the gateway.
func (s *NotificationService) record(ctx context.Context, kind domain.NotificationKind, out *domain.SendOutcome) {
	if len(out.Parts) == 0 {
		return
	}
	now := s.cfg.Now().UTC()
	rows := make([]*domain.Delivery, len(out.Parts))
	for i, p := range out.Parts {
		d := &domain.Delivery{
			ID:        uuid.New().String(),
			Kind:      kind,
			Recipient: out.To,
			Part:      p.Index,
			Parts:     len(out.Parts),
			Success:   p.Success,
			CreatedAt: now,
		}
		if p.MessageID != "" {
			id := p.MessageID
			d.MessageID = &id
		}
		if p.Error != "" {
			msg := p.Error
			d.Error = &msg
		}
		rows[i] = d
	}
	if err := s.deliveries.Record(ctx, rows); err != nil {
		s.logger.Error("failed to record deliveries", zap.String("kind", string(kind)), zap.Error(err))
	}
}
