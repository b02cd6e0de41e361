package queue

import (
	"context"
	"fmt"

	"github.com/barberbook/barberbook/internal/domain"
)

// Default lane capacities. A barbershop produces a handful of jobs a day;
// a full lane means workers are stuck, not that traffic is high.
const (
	DefaultHighCapacity   = 100
	DefaultNormalCapacity = 10
)

// PriorityQueue dispatches jobs to one of two buffered channels.
//
// Workers dequeue via the double-select pattern, which guarantees that
// confirmations waiting in the high lane are served before digests.
type PriorityQueue struct {
	high   chan Job
	normal chan Job
}

// New returns a queue with the given lane capacities; values <= 0 use the defaults.
func New(highCap, normalCap int) *PriorityQueue {
	if highCap <= 0 {
		highCap = DefaultHighCapacity
	}
	if normalCap <= 0 {
		normalCap = DefaultNormalCapacity
	}
	return &PriorityQueue{
		high:   make(chan Job, highCap),
		normal: make(chan Job, normalCap),
	}
}

// Enqueue places a job on its priority lane.
// It is non-blocking: if the lane is full, ErrQueueFull is returned
// immediately rather than blocking the caller.
func (q *PriorityQueue) Enqueue(job Job) error {
	var lane chan Job
	switch job.Priority {
	case PriorityHigh:
		lane = q.high
	case PriorityNormal:
		lane = q.normal
	default:
		return fmt.Errorf("unknown priority %q", job.Priority)
	}

	select {
	case lane <- job:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Dequeue blocks until a job is available or ctx is cancelled.
//
// The double-select pattern:
//  1. A non-blocking select checks the high lane first.
//  2. Only when high is empty does the goroutine block on both lanes plus
//     the done signal, so the worker sleeps instead of spinning.
//
// Returns (Job{}, false) when ctx is cancelled.
func (q *PriorityQueue) Dequeue(ctx context.Context) (Job, bool) {
	select {
	case job := <-q.high:
		return job, true
	default:
	}

	select {
	case job := <-q.high:
		return job, true
	case job := <-q.normal:
		return job, true
	case <-ctx.Done():
		return Job{}, false
	}
}

// Depths returns the number of jobs waiting in each lane.
func (q *PriorityQueue) Depths() (high, normal int) {
	return len(q.high), len(q.normal)
}
