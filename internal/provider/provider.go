package provider

import (
	"context"
)

// Email is one outbound gateway message. Gateways read the plain text body;
// HTML is an alternative part for mail clients.
type Email struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// SendResponse carries the transport-assigned message identifier.
type SendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status,omitempty"`
}

// Provider abstracts the outbound mail transport.
// Mocking this interface in tests gives full control over transport behaviour
// without touching a real mail server.
type Provider interface {
	Send(ctx context.Context, e *Email) (*SendResponse, error)
}
