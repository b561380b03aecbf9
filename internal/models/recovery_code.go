// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// RecoveryCode is a one-time numeric code that lets the owner of an email
// address reset their password. There is at most one row per email.
type RecoveryCode struct {
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"codigo" json:"-"`
	ExpiresAt time.Time `db:"expira" json:"expires_at"`
}

// IsExpired reports whether the code is no longer valid at now.
func (c *RecoveryCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
