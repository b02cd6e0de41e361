package domain

import (
	"strings"
	"time"
)

// NotificationKind labels which pipeline produced a delivery.
type NotificationKind string

const (
	KindConfirmation NotificationKind = "confirmation"
	KindDigest       NotificationKind = "digest"
	KindTest         NotificationKind = "test"
)

// Trigger records what started a digest.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerOnDemand  Trigger = "on_demand"
)

// ConfirmationRequest is the inbound payload for a single-appointment SMS.
type ConfirmationRequest struct {
	ClientName string  `json:"clientName"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Duration   int     `json:"duration"`
	Price      float64 `json:"price,omitempty"`
}

// Validate only checks presence; the composer rejects malformed values.
func (r *ConfirmationRequest) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return missing("clientName")
	}
	if r.Date == "" {
		return missing("date")
	}
	if r.Time == "" {
		return missing("time")
	}
	return nil
}

// DigestEntry is one line of the daily digest.
type DigestEntry struct {
	ClientName string `json:"clientName"`
	Time       string `json:"time"`
}

// DigestRequest carries a pre-fetched count and list of today's appointments.
type DigestRequest struct {
	AppointmentCount int           `json:"appointmentCount"`
	Appointments     []DigestEntry `json:"appointments"`
}

// PartResult is the outcome of sending one chunk. Index is 1-based.
type PartResult struct {
	Index     int    `json:"index"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// SendOutcome aggregates every part of one notification.
// Err keeps the typed cause for error mapping and is never serialised.
type SendOutcome struct {
	Success bool         `json:"success"`
	To      string       `json:"to,omitempty"`
	Parts   []PartResult `json:"parts"`
	Error   string       `json:"error,omitempty"`
	Err     error        `json:"-"`
}

// Failed builds an outcome for a request rejected before any send.
func Failed(err error) *SendOutcome {
	return &SendOutcome{Error: err.Error(), Err: err, Parts: []PartResult{}}
}

// MessageIDs returns the transport ids of the parts that were delivered.
func (o *SendOutcome) MessageIDs() []string {
	ids := make([]string, 0, len(o.Parts))
	for _, p := range o.Parts {
		if p.Success {
			ids = append(ids, p.MessageID)
		}
	}
	return ids
}

// Delivery is a persisted record of one attempted part.
type Delivery struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Recipient string           `json:"recipient"`
	Part      int              `json:"part"`
	Parts     int              `json:"parts"`
	Success   bool             `json:"success"`
	MessageID *string          `json:"messageId,omitempty"`
	Error     *string          `json:"error,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DigestRun marks a digest attempt for one calendar day.
type DigestRun struct {
	RunDate          string    `json:"runDate"`
	Trigger          Trigger   `json:"trigger"`
	AppointmentCount int       `json:"appointmentCount"`
	Success          bool      `json:"success"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DigestResult reports what a today-digest run did.
type DigestResult struct {
	Date             string       `json:"date"`
	Trigger          Trigger      `json:"trigger"`
	AppointmentCount int          `json:"appointmentsCount"`
	Skipped          bool         `json:"skipped,omitempty"`
	Reason           string       `json:"reason,omitempty"`
	Outcome          *SendOutcome `json:"outcome,omitempty"`
}

// Sent reports whether every digest part was delivered.
func (r *DigestResult) Sent() bool {
	return r.Outcome != nil && r.Outcome.Success
}
