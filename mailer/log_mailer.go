package mailer

import (
	"context"
)

// Logger matches the root package logger contract.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LogMailer writes codes to the log instead of sending email. Used in
// development when no SMTP host is configured.
type LogMailer struct {
	logger Logger
}

func NewLogMailer(logger Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendAccountConfirmation(ctx context.Context, email, name, code string) error {
	m.logger.Info("account confirmation email", "email", email, "name", name, "code", code)
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, name, code string) error {
	m.logger.Info("password reset email", "email", email, "name", name, "code", code)
	return nil
}
