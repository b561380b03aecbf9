// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), BcryptCost)

type Service struct {
	repo   *repository.Repository
	tokens *Tokens
	policy *PasswordPolicy
}

func NewService(repo *repository.Repository, tokens *Tokens) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		policy: DefaultPasswordPolicy(),
	}
}

// Tokens returns the token issuer shared with the auth middleware.
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// RegisterParams holds the parameters for user registration
type RegisterParams struct { //nolint:govet // fieldalignment: readability over optimization
	Name         string `json:"nome" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"senha" validate:"required"`
	Phone        string `json:"telefone" validate:"required"`
	CPF          string `json:"cpf" validate:"omitempty,cpf"`
	CNPJ         string `json:"cnpj" validate:"omitempty,cnpj"`
	Address      string `json:"endereco" validate:"required"`
	State        string `json:"estado" validate:"required"`
	City         string `json:"cidade" validate:"required"`
	Neighborhood string `json:"bairro" validate:"required"`
}

// Register creates a new user account and returns it with a bearer token.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, string, error) {
	params.Email = strings.TrimSpace(params.Email)
	if err := validation.Struct(params); err != nil {
		return nil, "", err
	}
	if err := s.policy.Validate(params.Password); err != nil {
		return nil, "", err
	}

	exists, err := s.repo.EmailExists(ctx, params.Email)
	if err != nil {
		return nil, "", apperr.Storage(fmt.Errorf("failed to check existing user: %w", err))
	}
	if exists {
		return nil, "", apperr.Wrap(apperr.KindConflict, "error_email_taken", ErrUserExists)
	}

	passwordHash, err := HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		Phone:        params.Phone,
		CPF:          document(params.CPF),
		CNPJ:         document(params.CNPJ),
		Address:      params.Address,
		State:        params.State,
		City:         params.City,
		Neighborhood: params.Neighborhood,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperr.Wrap(apperr.KindConflict, "error_email_taken", ErrUserExists)
		}
		return nil, "", apperr.Storage(fmt.Errorf("failed to create user: %w", err))
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("register_success", "user_id", user.ID, "email", params.Email)

	return user, token, nil
}

// document stores CPF and CNPJ as bare digits so recovery lookups match
// regardless of the punctuation used at registration.
func document(raw string) *string {
	digits := validation.Digits(raw)
	if digits == "" {
		return nil
	}
	return &digits
}

// Login authenticates a user and returns the user with a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.KindValidation, "error_missing_fields")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, "", apperr.Wrap(apperr.KindNotFound, "error_user_not_found", ErrUserNotFound)
		}
		return nil, "", apperr.Storage(fmt.Errorf("failed to get user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, "", apperr.Wrap(apperr.KindUnauthorized, "error_invalid_credentials", ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, token, nil
}
