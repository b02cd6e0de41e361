package provider

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogProvider writes messages to the log instead of sending them.
// Used with MAIL_TRANSPORT=log for local development.
type LogProvider struct {
	logger *zap.Logger
}

func NewLogProvider(logger *zap.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Send(_ context.Context, e *Email) (*SendResponse, error) {
	id := "<" + uuid.New().String() + "@barberbook.local>"
	p.logger.Info("mail transport disabled, logging message",
		zap.String("message_id", id),
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("text", e.Text),
	)
	return &SendResponse{MessageID: id, Status: "logged"}, nil
}

var _ Provider = (*LogProvider)(nil)
