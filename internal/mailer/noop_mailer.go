package mailer

import (
	"context"

	"go.uber.org/zap"
)

// noopMailer logs instead of sending. Used when no SENDGRID_API_KEY is
// configured, typically in local development.
type noopMailer struct {
	logger *zap.Logger
}

func NewNoopMailer() Mailer {
	return &noopMailer{logger: zap.L().Named("mailer.noop")}
}

func (m *noopMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail suppressed",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
	)
	return nil
}
