package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/domain"
	"github.com/barberbook/barberbook/internal/queue"
)

// MetricHooks carries the metric callback functions injected by main.
type MetricHooks struct {
	OnJob func(kind domain.NotificationKind, result string)
}

// Pool manages the lifecycle of all workers.
// All workers share the same priority queue; the queue's double-select
// pattern handles priority ordering internally.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool creates size identical workers; size < 1 is treated as 1.
// A digest holds its worker for several minutes, so more than one worker
// keeps confirmations flowing while a digest is being paced.
func NewPool(
	size int,
	q *queue.PriorityQueue,
	notifier Notifier,
	logger *zap.Logger,
	hooks MetricHooks,
) *Pool {
	if size < 1 {
		size = 1
	}
	workers := make([]*Worker, size)
	for i := range workers {
		workers[i] = NewWorker(i, q, notifier, logger.With(zap.Int("worker_id", i)), hooks.OnJob)
	}
	return &Pool{workers: workers}
}

// Start launches all workers as goroutines.
// Cancelling ctx stops the pool and interrupts in-flight pacing.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}
