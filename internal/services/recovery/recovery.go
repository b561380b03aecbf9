// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package recovery issues and redeems emailed one-time password recovery
// codes.
package recovery

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/metrics"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/services/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/validation"
)

const (
	// CodeMin and CodeMax bound the six digit codes.
	CodeMin = 100000
	CodeMax = 999999
	// DefaultCodeTTL is how long an issued code stays valid.
	DefaultCodeTTL = 10 * time.Minute
)

var (
	ErrAccountNotFound = errors.New("no account matches email and document")
	ErrCodeActive      = errors.New("an unexpired recovery code exists")
	ErrInvalidCode     = errors.New("invalid recovery code")
	ErrCodeExpired     = errors.New("recovery code expired")
	ErrDelivery        = errors.New("recovery code delivery failed")
)

// Mailer delivers recovery codes.
type Mailer interface {
	SendRecoveryCode(ctx context.Context, to, code string) error
}

// Service handles recovery code issuance and confirmation.
type Service struct {
	repo   *repository.Repository
	mailer Mailer
	policy *auth.PasswordPolicy
	now    func() time.Time
	ttl    time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithClock replaces the clock used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new recovery service. A non-positive ttl uses
// DefaultCodeTTL.
func NewService(repo *repository.Repository, mailer Mailer, ttl time.Duration, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	s := &Service{
		repo:   repo,
		mailer: mailer,
		policy: auth.DefaultPasswordPolicy(),
		now:    time.Now,
		ttl:    ttl,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a recovery code for the account identified by email and its
// CPF, or CNPJ when isCompany is set, and emails it. At most one unexpired
// code exists per email.
func (s *Service) Issue(ctx context.Context, email, document string, isCompany bool) error {
	email = strings.TrimSpace(email)
	document = validation.Digits(document)
	if email == "" || document == "" {
		return apperr.New(apperr.KindValidation, "error_recovery_missing_fields")
	}

	exists, err := s.repo.UserExistsWithDocument(ctx, email, document, isCompany)
	if err != nil {
		return apperr.Storage(fmt.Errorf("failed to look up account: %w", err))
	}
	if !exists {
		return apperr.Wrap(apperr.KindNotFound, "error_recovery_account_not_found", ErrAccountNotFound)
	}

	code, err := GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.now()
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.DeleteExpiredRecoveryCode(ctx, email, now); err != nil {
			return err
		}
		return tx.CreateRecoveryCode(ctx, &models.RecoveryCode{
			Email:     email,
			Code:      code,
			ExpiresAt: now.Add(s.ttl),
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.RecoveryCodes.WithLabelValues("conflict").Inc()
			return apperr.Wrap(apperr.KindConflict, "error_recovery_code_active", ErrCodeActive)
		}
		return apperr.Storage(fmt.Errorf("failed to store code: %w", err))
	}

	if err := s.mailer.SendRecoveryCode(ctx, email, code); err != nil {
		metrics.RecoveryCodes.WithLabelValues("delivery_failed").Inc()
		slog.Error("recovery_code_delivery_failed", "email", email, "error", err)
		// A code that never arrived must not block the next attempt.
		if derr := s.repo.DeleteRecoveryCode(ctx, email); derr != nil {
			slog.Error("recovery_code_cleanup_failed", "email", email, "error", derr)
		}
		return apperr.Wrap(apperr.KindDeliveryFailure, "error_recovery_delivery",
			fmt.Errorf("%w: %w", ErrDelivery, err))
	}

	metrics.RecoveryCodes.WithLabelValues("issued").Inc()
	slog.Info("recovery_code_issued", "email", email)
	return nil
}

// Confirm redeems code and sets newPassword on the account. The code is
// consumed on success and deleted when it turns out to be expired.
func (s *Service) Confirm(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return apperr.New(apperr.KindValidation, "error_missing_fields")
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	rc, err := s.repo.GetRecoveryCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecoveryCodes.WithLabelValues("invalid").Inc()
			slog.Warn("recovery_code_rejected", "email", email, "reason", "invalid")
			return apperr.Wrap(apperr.KindValidation, "error_recovery_code_invalid", ErrInvalidCode)
		}
		return apperr.Storage(fmt.Errorf("failed to get code: %w", err))
	}

	if rc.IsExpired(s.now()) {
		metrics.RecoveryCodes.WithLabelValues("expired").Inc()
		slog.Warn("recovery_code_rejected", "email", email, "reason", "expired")
		if err := s.repo.DeleteRecoveryCode(ctx, email); err != nil {
			return apperr.Storage(fmt.Errorf("failed to delete expired code: %w", err))
		}
		return apperr.Wrap(apperr.KindExpired, "error_recovery_code_expired", ErrCodeExpired)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.UpdatePasswordByEmail(ctx, email, hash); err != nil {
			return err
		}
		return tx.DeleteRecoveryCode(ctx, email)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "error_user_not_found", err)
		}
		return apperr.Storage(fmt.Errorf("failed to update password: %w", err))
	}

	metrics.RecoveryCodes.WithLabelValues("confirmed").Inc()
	slog.Info("recovery_code_confirmed", "email", email)
	return nil
}

// ForceChangePassword sets newPassword on the account without a code. The
// caller must have established that the requester owns email. An email with
// no account is not an error.
func (s *Service) ForceChangePassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return apperr.New(apperr.KindValidation, "error_missing_fields")
	}
	if err := s.policy.Validate(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.repo.UpdatePasswordByEmail(ctx, email, hash)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// Only a storage failure is reported.
		slog.Warn("password_change_no_account", "email", email)
		return nil
	case err != nil:
		return apperr.Storage(fmt.Errorf("failed to update password: %w", err))
	}

	slog.Info("password_changed", "email", email)
	return nil
}

// SweepExpired deletes every expired code and returns how many were removed.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredRecoveryCodes(ctx, s.now())
	if err != nil {
		return 0, apperr.Storage(fmt.Errorf("failed to sweep codes: %w", err))
	}
	metrics.RecoveryCodesSwept.Add(float64(n))
	return n, nil
}

// GenerateCode draws a uniformly distributed code in [CodeMin, CodeMax].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(CodeMax-CodeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+CodeMin), nil
}
