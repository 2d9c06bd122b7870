// Package mailer delivers account lifecycle email over SMTP, rendering
// HTML bodies from embedded templates.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"net/http"

	"github.com/gofiber/template/django/v3"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Config carries the SMTP settings plus the frontend base URL used to
// build reset links.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// SMTPMailer renders and sends account email through an SMTP relay.
type SMTPMailer struct {
	client      *mail.Client
	engine      *django.Engine
	from        string
	frontendURL string
}

// NewSMTPMailer dials nothing up front; the connection happens per send.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	engine, err := newEngine()
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{
		client:      client,
		engine:      engine,
		from:        cfg.From,
		frontendURL: cfg.FrontendURL,
	}, nil
}

func newEngine() (*django.Engine, error) {
	engine := django.NewFileSystem(http.FS(templatesFS), ".html")
	if err := engine.Load(); err != nil {
		return nil, err
	}
	return engine, nil
}

func (m *SMTPMailer) SendAccountConfirmation(ctx context.Context, email, name, code string) error {
	body, err := m.render("templates/confirmation", map[string]any{
		"name": name,
		"code": code,
		"url":  fmt.Sprintf("%s/auth/confirm-account", m.frontendURL),
	})
	if err != nil {
		return err
	}

	return m.send(ctx, email, "UpTask - Confirm your account", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, name, code string) error {
	body, err := m.render("templates/password_reset", map[string]any{
		"name": name,
		"code": code,
		"url":  fmt.Sprintf("%s/auth/new-password", m.frontendURL),
	})
	if err != nil {
		return err
	}

	return m.send(ctx, email, "UpTask - Reset your password", body)
}

func (m *SMTPMailer) render(template string, binding map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := m.engine.Render(&buf, template, binding); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}
