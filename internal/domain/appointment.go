package domain

import (
	"strings"
	"time"
)

// DateLayout and TimeLayout are the wire formats for appointment dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// AppointmentStatus tracks where an appointment is in its lifecycle.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentPending, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// Client is a customer of the shop.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Appointment is a booked slot. Date is yyyy-mm-dd and Time is HH:MM (24h).
type Appointment struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"clientId"`
	ClientName string            `json:"clientName,omitempty"`
	Title      string            `json:"title"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Duration   int               `json:"duration"`
	Price      float64           `json:"price"`
	Notes      *string           `json:"notes,omitempty"`
	Status     AppointmentStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ClientInput is the create/update payload for a client.
type ClientInput struct {
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (in *ClientInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return missing("name")
	}
	return nil
}

// AppointmentInput is the create/update payload for an appointment.
type AppointmentInput struct {
	ClientID string            `json:"clientId"`
	Title    string            `json:"title"`
	Date     string            `json:"date"`
	Time     string            `json:"time"`
	Duration int               `json:"duration"`
	Price    float64           `json:"price"`
	Notes    *string           `json:"notes,omitempty"`
	Status   AppointmentStatus `json:"status"`
}

func (in *AppointmentInput) Validate() error {
	if in.ClientID == "" {
		return missing("clientId")
	}
	if err := ValidateDate(in.Date); err != nil {
		return err
	}
	if err := ValidateTime(in.Time); err != nil {
		return err
	}
	if in.Duration <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be positive"}
	}
	if in.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if in.Status == "" {
		in.Status = AppointmentScheduled
	}
	if !in.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "must be scheduled, pending, completed, or cancelled"}
	}
	return nil
}

// ValidateDate checks an ISO yyyy-mm-dd calendar date.
func ValidateDate(s string) error {
	if s == "" {
		return missing("date")
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &ValidationError{Field: "date", Reason: "must be formatted yyyy-mm-dd"}
	}
	return nil
}

// ValidateTime checks an HH:MM 24-hour clock time.
func ValidateTime(s string) error {
	if s == "" {
		return missing("time")
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return &ValidationError{Field: "time", Reason: "must be formatted HH:MM (24h)"}
	}
	return nil
}

// AppointmentFilter narrows an appointment listing. Nil fields are ignored.
// From and To are inclusive yyyy-mm-dd bounds.
type AppointmentFilter struct {
	From   *string
	To     *string
	Status *AppointmentStatus
}

// Stats is the dashboard summary.
type Stats struct {
	Today     int     `json:"today"`
	Scheduled int     `json:"scheduled"`
	Total     int     `json:"total"`
	Earnings  float64 `json:"earnings"`
}

// EarningsDay is one row of the daily earnings summary.
type EarningsDay struct {
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Appointments int     `json:"appointments"`
}

// User is the single owner account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
