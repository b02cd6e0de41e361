package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnsupportedCarrier = errors.New("unsupported carrier")
	ErrValidation         = errors.New("validation failed")
	ErrTransport          = errors.New("transport failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrQueueFull          = errors.New("job queue is at capacity, try again later")
)

// UnsupportedCarrierError is returned when a carrier key has no gateway entry.
type UnsupportedCarrierError struct {
	Carrier string
}

func (e *UnsupportedCarrierError) Error() string {
	return fmt.Sprintf("unsupported carrier: %s", e.Carrier)
}

func (e *UnsupportedCarrierError) Is(target error) bool {
	return target == ErrUnsupportedCarrier
}

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TransportError wraps the mail transport failure for one message part.
// Part is 1-based to match the numbering shown in logs and responses.
type TransportError struct {
	Part int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send part %d: %v", e.Part, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func missing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}
