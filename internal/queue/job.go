package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/barberbook/barberbook/internal/domain"
)

// Priority selects the lane a job waits in.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Job is one unit of notification work. Confirmation is set for
// KindConfirmation jobs; Trigger is set for KindDigest jobs.
type Job struct {
	ID           string
	Kind         domain.NotificationKind
	Priority     Priority
	Confirmation *domain.ConfirmationRequest
	Trigger      domain.Trigger
	EnqueuedAt   time.Time
}

// ConfirmationJob wraps a confirmation request. Confirmations are time
// sensitive and always ride the high lane.
func ConfirmationJob(req domain.ConfirmationRequest) Job {
	return Job{
		ID:           uuid.New().String(),
		Kind:         domain.KindConfirmation,
		Priority:     PriorityHigh,
		Confirmation: &req,
		EnqueuedAt:   time.Now().UTC(),
	}
}

// DigestJob asks a worker to send today's digest.
func DigestJob(trigger domain.Trigger) Job {
	return Job{
		ID:         uuid.New().String(),
		Kind:       domain.KindDigest,
		Priority:   PriorityNormal,
		Trigger:    trigger,
		EnqueuedAt: time.Now().UTC(),
	}
}
