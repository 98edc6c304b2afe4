package auth

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers confirmation codes to users
type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, username, code string) error
}

// LogMailer writes outgoing mail to the logger instead of sending it
type LogMailer struct {
	from   string
	logger *zap.Logger
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(from string, logger *zap.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

// SendConfirmationCode implements Mailer
func (m *LogMailer) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("confirmation code sent",
		zap.String("from", m.from),
		zap.String("to", email),
		zap.String("username", username),
		zap.String("confirmation_code", code))
	return nil
}
