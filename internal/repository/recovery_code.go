// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
)

// CreateRecoveryCode inserts a recovery code. The email is the primary key,
// so a second code for the same email fails with ErrDuplicate.
func (r *Repository) CreateRecoveryCode(ctx context.Context, code *models.RecoveryCode) error {
	code.ExpiresAt = storedTime(code.ExpiresAt)
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO recuperacao_senha (email, codigo, expira) VALUES (?, ?, ?)`,
		code.Email, code.Code, code.ExpiresAt)
	return wrapError(err)
}

// GetRecoveryCode retrieves the recovery code matching both email and code.
func (r *Repository) GetRecoveryCode(ctx context.Context, email, code string) (*models.RecoveryCode, error) {
	var rc models.RecoveryCode
	err := r.q.GetContext(ctx, &rc,
		`SELECT email, codigo, expira FROM recuperacao_senha WHERE email = ? AND codigo = ?`,
		email, code)
	if err != nil {
		return nil, wrapError(err)
	}
	return &rc, nil
}

// DeleteRecoveryCode deletes the recovery code of an email, if any.
func (r *Repository) DeleteRecoveryCode(ctx context.Context, email string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM recuperacao_senha WHERE email = ?`, email)
	return err
}

// DeleteExpiredRecoveryCode deletes the code of an email when it expired at
// or before at.
func (r *Repository) DeleteExpiredRecoveryCode(ctx context.Context, email string, at time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM recuperacao_senha WHERE email = ? AND expira <= ?`, email, storedTime(at))
	return err
}

// DeleteExpiredRecoveryCodes deletes every code that expired at or before at
// and returns how many were removed.
func (r *Repository) DeleteExpiredRecoveryCodes(ctx context.Context, at time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM recuperacao_senha WHERE expira <= ?`, storedTime(at))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
