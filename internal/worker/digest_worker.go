package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/queue"
)

// Enqueuer accepts jobs. Implemented by queue.PriorityQueue.
type Enqueuer interface {
	Enqueue(job queue.Job) error
}

// DigestWorker fires the daily digest on a cron schedule evaluated in the
// shop's timezone. Each firing only enqueues a job; the pool sends it.
type DigestWorker struct {
	cron     *cron.Cron
	schedule cron.Schedule
	loc      *time.Location
	q        Enqueuer
	logger   *zap.Logger
}

// NewDigestWorker parses a standard five-field cron spec such as "30 7 * * *".
func NewDigestWorker(spec string, loc *time.Location, q Enqueuer, logger *zap.Logger) (*DigestWorker, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse digest schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	dw := &DigestWorker{schedule: schedule, loc: loc, q: q, logger: logger}
	dw.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{logger.Sugar()}),
		cron.WithChain(cron.Recover(cronLogger{logger.Sugar()})),
	)
	dw.cron.Schedule(schedule, cron.FuncJob(dw.Fire))
	return dw, nil
}

// Run starts the scheduler and blocks until ctx is cancelled.
func (dw *DigestWorker) Run(ctx context.Context) {
	dw.cron.Start()
	dw.logger.Info("digest worker started", zap.Time("next_run", dw.Next(time.Now())))

	<-ctx.Done()
	<-dw.cron.Stop().Done()
	dw.logger.Info("digest worker stopping")
}

// Fire enqueues one scheduled digest job.
func (dw *DigestWorker) Fire() {
	job := queue.DigestJob(domain.TriggerScheduled)
	if err := dw.q.Enqueue(job); err != nil {
		dw.logger.Warn("could not enqueue daily digest", zap.Error(err))
		return
	}
	dw.logger.Info("daily digest queued", zap.String("job_id", job.ID))
}

// Next returns the first firing strictly after t, in the shop's timezone.
func (dw *DigestWorker) Next(t time.Time) time.Time {
	return dw.schedule.Next(t.In(dw.loc))
}

// cronLogger routes cron's logr-style calls to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
