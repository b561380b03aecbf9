// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email delivers transactional mail through SMTP, SendGrid or the
// application log.
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/config"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/metrics"
)

// ErrSendFailed is wrapped by every delivery failure.
var ErrSendFailed = errors.New("email delivery failed")

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Service renders and sends the application's emails.
type Service struct {
	sender   Sender
	provider string
	codeTTL  time.Duration
}

// NewService creates a service that sends through sender. provider labels
// the delivery metrics.
func NewService(sender Sender, provider string, codeTTL time.Duration) *Service {
	return &Service{
		sender:   sender,
		provider: provider,
		codeTTL:  codeTTL,
	}
}

// NewFromConfig picks the sender configured in cfg.
func NewFromConfig(cfg *config.MailConfig, codeTTL time.Duration) (*Service, error) {
	var (
		sender Sender
		err    error
	)

	switch cfg.Provider {
	case config.MailProviderSMTP:
		sender, err = NewSMTPSender(cfg)
	case config.MailProviderSendGrid:
		sender, err = NewSendGridSender(cfg, "")
	case config.MailProviderLog:
		sender = LogSender{}
	default:
		err = fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewService(sender, cfg.Provider, codeTTL), nil
}

// SendRecoveryCode emails a password recovery code to the given address in
// the locale carried by ctx.
func (s *Service) SendRecoveryCode(ctx context.Context, to, code string) error {
	content := recoveryContent{
		Title:       i18n.T(ctx, "email_recovery_title"),
		Greeting:    i18n.T(ctx, "email_recovery_greeting"),
		Intro:       i18n.T(ctx, "email_recovery_intro"),
		Instruction: i18n.T(ctx, "email_recovery_instruction"),
		Code:        code,
		Expiry: i18n.TData(ctx, "email_recovery_expiry", map[string]any{
			"Minutes": int(s.codeTTL.Minutes()),
		}),
		Ignore:    i18n.T(ctx, "email_recovery_ignore"),
		Signature: i18n.T(ctx, "email_recovery_signature"),
	}

	html, err := renderHTML(ctx, recoveryEmail(content))
	if err != nil {
		return fmt.Errorf("rendering recovery email: %w", err)
	}

	msg := Message{
		To:      to,
		Subject: i18n.T(ctx, "email_recovery_subject"),
		Text:    content.text(),
		HTML:    html,
	}

	err = s.sender.Send(ctx, msg)
	metrics.EmailsSent.WithLabelValues(s.provider, metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return nil
}

func (c recoveryContent) text() string {
	return strings.Join([]string{
		c.Greeting,
		"",
		c.Intro,
		c.Instruction,
		"",
		"    " + c.Code,
		"",
		c.Expiry,
		c.Ignore,
		"",
		c.Signature,
	}, "\n")
}
