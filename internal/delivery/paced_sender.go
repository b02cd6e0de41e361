// Package delivery sends multi-part messages through the mail transport,
// pausing between parts so carrier gateways do not throttle or spam-filter
// a rapid sequence from the same sender.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/provider"
)

// Policy decides what happens to the remaining parts after a failed send.
type Policy int

const (
	// ContinueOnError attempts every part regardless of earlier failures.
	ContinueOnError Policy = iota
	// AbortOnError stops at the first failure; later parts are reported as skipped.
	AbortOnError
)

func (p Policy) String() string {
	if p == AbortOnError {
		return "abort_on_error"
	}
	return "continue_on_error"
}

// Schedule is the pause inserted after each part: First after part 1,
// Next after every later part. Nothing follows the last part.
type Schedule struct {
	First time.Duration
	Next  time.Duration
}

// DefaultSchedule waits one minute after the first part and two minutes
// between every later pair.
func DefaultSchedule() Schedule {
	return Schedule{First: time.Minute, Next: 2 * time.Minute}
}

// After returns the pause following the given 1-based part.
func (s Schedule) After(part int) time.Duration {
	if part <= 1 {
		return s.First
	}
	return s.Next
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits on a timer without blocking other goroutines.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter throttles sends per destination gateway.
type Limiter interface {
	Wait(ctx context.Context, address string) error
}

// SubjectFunc returns the subject line for a 1-based part of total.
type SubjectFunc func(part, total int) string

// FixedSubject uses the same subject for every part.
func FixedSubject(subject string) SubjectFunc {
	return func(int, int) string { return subject }
}

// Hooks carries the metric callbacks injected by main.
// Any nil callback is a no-op.
type Hooks struct {
	OnSent   func(kind domain.NotificationKind, latency time.Duration)
	OnFailed func(kind domain.NotificationKind)
	OnPause  func(d time.Duration)
}

// Config holds the sender's fixed policy.
type Config struct {
	From     string
	Schedule Schedule
	// Sleep defaults to Sleep; tests substitute a recorder.
	Sleep SleepFunc
}

// Request is one ordered multi-part message to a single gateway address.
type Request struct {
	Kind    domain.NotificationKind
	To      string
	Chunks  []string
	Subject SubjectFunc
	Policy  Policy
}

// PacedSender holds no per-call state; one instance serves concurrent sends.
type PacedSender struct {
	prov    provider.Provider
	limiter Limiter
	cfg     Config
	logger  *zap.Logger
	hooks   Hooks
}

// NewPacedSender constructs a sender. limiter may be nil.
func NewPacedSender(
	prov provider.Provider,
	limiter Limiter,
	cfg Config,
	logger *zap.Logger,
	hooks Hooks,
) *PacedSender {
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	if hooks.OnSent == nil {
		hooks.OnSent = func(domain.NotificationKind, time.Duration) {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func(domain.NotificationKind) {}
	}
	if hooks.OnPause == nil {
		hooks.OnPause = func(time.Duration) {}
	}
	return &PacedSender{prov: prov, limiter: limiter, cfg: cfg, logger: logger, hooks: hooks}
}

// Send transmits every chunk in order, one transport call per chunk, pausing
// per the schedule between consecutive parts. It never returns an error:
// the outcome carries one PartResult per chunk and the first failure.
func (s *PacedSender) Send(ctx context.Context, req Request) *domain.SendOutcome {
	total := len(req.Chunks)
	out := &domain.SendOutcome{To: req.To, Parts: make([]domain.PartResult, 0, total)}
	if total == 0 {
		err := &domain.ValidationError{Field: "message", Reason: "is empty"}
		out.Error, out.Err = err.Error(), err
		return out
	}
	subject := req.Subject
	if subject == nil {
		subject = FixedSubject("")
	}

	log := s.logger.With(
		zap.String("kind", string(req.Kind)),
		zap.String("to", req.To),
		zap.Int("parts", total),
		zap.Stringer("policy", req.Policy),
	)
	log.Info("sending message parts")

	var firstErr error
	halted := false

	for i, chunk := range req.Chunks {
		part := i + 1
		if halted {
			out.Parts = append(out.Parts, domain.PartResult{Index: part, Skipped: true, Error: "not sent"})
			continue
		}

		if i > 0 {
			d := s.cfg.Schedule.After(i)
			log.Info("waiting before next part", zap.Int("next_part", part), zap.Duration("delay", d))
			if err := s.cfg.Sleep(ctx, d); err != nil {
				firstErr = firstOf(firstErr, fmt.Errorf("pacing before part %d: %w", part, err))
				halted = true
				out.Parts = append(out.Parts, domain.PartResult{Index: part, Skipped: true, Error: "not sent"})
				continue
			}
			s.hooks.OnPause(d)
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, req.To); err != nil {
				firstErr = firstOf(firstErr, fmt.Errorf("rate limit before part %d: %w", part, err))
				halted = true
				out.Parts = append(out.Parts, domain.PartResult{Index: part, Skipped: true, Error: "not sent"})
				continue
			}
		}

		start := time.Now()
		resp, err := s.prov.Send(ctx, &provider.Email{
			From:    s.cfg.From,
			To:      req.To,
			Subject: subject(part, total),
			Text:    chunk,
			HTML:    provider.TextToHTML(chunk),
		})
		if err != nil {
			te := &domain.TransportError{Part: part, Err: err}
			firstErr = firstOf(firstErr, te)
			out.Parts = append(out.Parts, domain.PartResult{Index: part, Error: err.Error()})
			s.hooks.OnFailed(req.Kind)
			log.Warn("part send failed", zap.Int("part", part), zap.Error(err))
			if req.Policy == AbortOnError {
				halted = true
			}
			continue
		}

		s.hooks.OnSent(req.Kind, time.Since(start))
		out.Parts = append(out.Parts, domain.PartResult{Index: part, Success: true, MessageID: resp.MessageID})
		log.Info("part sent", zap.Int("part", part), zap.String("message_id", resp.MessageID))
	}

	if firstErr != nil {
		out.Error, out.Err = firstErr.Error(), firstErr
		log.Warn("message not fully delivered", zap.Error(firstErr))
		return out
	}
	out.Success = true
	return out
}

func firstOf(current, next error) error {
	if current != nil {
		return current
	}
	return next
}

// IsTransport reports whether the outcome failed in the mail transport.
func IsTransport(o *domain.SendOutcome) bool {
	return o != nil && errors.Is(o.Err, domain.ErrTransport)
}
