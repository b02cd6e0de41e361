package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/queue"
)

// Job results, used as metric labels.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Notifier runs the notification pipeline for a job.
// Implemented by service.NotificationService.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, req domain.ConfirmationRequest) *domain.SendOutcome
	SendTodayDigest(ctx context.Context, trigger domain.Trigger) (*domain.DigestResult, error)
}

// Worker is a single goroutine that pulls jobs from the priority queue and
// hands them to the notifier. A job runs to completion, pauses included, before
// the next is dequeued; failures are logged and never retried.
type Worker struct {
	id       int
	q        *queue.PriorityQueue
	notifier Notifier
	logger   *zap.Logger

	// Injected by the pool so the worker stays metrics-agnostic.
	onJob func(kind domain.NotificationKind, result string)
}

// NewWorker constructs a worker. onJob is optional (nil = no-op).
func NewWorker(
	id int,
	q *queue.PriorityQueue,
	notifier Notifier,
	logger *zap.Logger,
	onJob func(domain.NotificationKind, string),
) *Worker {
	if onJob == nil {
		onJob = func(domain.NotificationKind, string) {}
	}
	return &Worker{id: id, q: q, notifier: notifier, logger: logger, onJob: onJob}
}

// Run blocks until ctx is cancelled, processing one job per iteration.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", zap.Int("id", w.id))
	for {
		job, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("worker stopping", zap.Int("id", w.id))
			return
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) {
	start := time.Now()
	log := w.logger.With(
		zap.String("job_id", job.ID),
		zap.String("kind", string(job.Kind)),
		zap.Duration("waited", start.Sub(job.EnqueuedAt)),
	)

	var result string
	switch job.Kind {
	case domain.KindConfirmation:
		if job.Confirmation == nil {
			log.Error("confirmation job without payload")
			return
		}
		out := w.notifier.SendAppointmentConfirmation(ctx, *job.Confirmation)
		result = outcomeResult(out)
		if !out.Success {
			log.Warn("confirmation not delivered", zap.String("error", out.Error))
		}

	case domain.KindDigest:
		res, err := w.notifier.SendTodayDigest(ctx, job.Trigger)
		switch {
		case err != nil:
			result = ResultFailed
			log.Error("daily digest failed", zap.Error(err))
		case res.Skipped:
			result = ResultSkipped
		default:
			result = outcomeResult(res.Outcome)
			if !res.Sent() {
				log.Warn("daily digest not delivered",
					zap.String("date", res.Date), zap.String("error", res.Outcome.Error))
			}
		}

	default:
		log.Error("unknown job kind")
		return
	}

	w.onJob(job.Kind, result)
	log.Info("job finished", zap.String("result", result), zap.Duration("elapsed", time.Since(start)))
}

func outcomeResult(out *domain.SendOutcome) string {
	if out != nil && out.Success {
		return ResultSent
	}
	return ResultFailed
}
