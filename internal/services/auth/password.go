// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

//go:embed common_passwords.txt
var commonPasswordsFS embed.FS

var commonPasswords map[string]struct{}

func init() {
	commonPasswords = make(map[string]struct{})
	file, err := commonPasswordsFS.Open("common_passwords.txt")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		password := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if password != "" {
			commonPasswords[password] = struct{}{}
		}
	}
}

// ErrWeakPassword is wrapped by every password rule violation.
var ErrWeakPassword = errors.New("password does not meet requirements")

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 10

// PasswordPolicy holds the rules a new password must satisfy.
type PasswordPolicy struct {
	MinLength            int
	CheckCommonPasswords bool
}

// DefaultPasswordPolicy returns the policy used for registration, profile
// updates and password recovery.
func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:            6,
		CheckCommonPasswords: true,
	}
}

// Validate returns a Validation error for the first rule password breaks.
func (p *PasswordPolicy) Validate(password string) error {
	if utf8.RuneCountInString(password) < p.MinLength {
		return apperr.Wrap(apperr.KindValidation, "error_password_too_short",
			fmt.Errorf("%w: shorter than %d characters", ErrWeakPassword, p.MinLength))
	}
	if p.CheckCommonPasswords && IsCommonPassword(password) {
		return apperr.Wrap(apperr.KindValidation, "error_password_too_common",
			fmt.Errorf("%w: common password", ErrWeakPassword))
	}
	return nil
}

// IsCommonPassword reports whether password is on the embedded list.
func IsCommonPassword(password string) bool {
	_, exists := commonPasswords[strings.ToLower(password)]
	return exists
}

// HashPassword hashes password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
