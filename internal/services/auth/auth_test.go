// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/services/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*auth.Service, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	return auth.NewService(repo, auth.NewTokens("test-secret", time.Hour)), repo
}

func validParams() auth.RegisterParams {
	return auth.RegisterParams{
		Name:         "Ana Souza",
		Email:        "ana@example.com",
		Password:     "gatos-e-caes",
		Phone:        "31988887777",
		CPF:          "529.982.247-25",
		Address:      "Rua das Flores, 10",
		State:        "MG",
		City:         "Belo Horizonte",
		Neighborhood: "Savassi",
	}
}

func TestRegister(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, validParams())

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)

	stored, err := repo.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.CPF)
	assert.Equal(t, "52998224725", *stored.CPF)
	assert.Nil(t, stored.CNPJ)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("gatos-e-caes")))

	claims, err := svc.Tokens().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*auth.RegisterParams)
		messageID string
	}{
		{"missing name", func(p *auth.RegisterParams) { p.Name = "" }, "error_missing_fields"},
		{"missing neighborhood", func(p *auth.RegisterParams) { p.Neighborhood = "" }, "error_missing_fields"},
		{"invalid email", func(p *auth.RegisterParams) { p.Email = "ana.example.com" }, "error_invalid_email"},
		{"invalid cpf", func(p *auth.RegisterParams) { p.CPF = "12345678900" }, "error_invalid_cpf"},
		{"invalid cnpj", func(p *auth.RegisterParams) { p.CNPJ = "11222333000100" }, "error_invalid_cnpj"},
		{"short password", func(p *auth.RegisterParams) { p.Password = "abc" }, "error_password_too_short"},
		{"common password", func(p *auth.RegisterParams) { p.Password = "senha123" }, "error_password_too_common"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			params := validParams()
			tt.modify(&params)

			_, _, err := svc.Register(context.Background(), params)

			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.messageID, apperr.MessageIDOf(err))
		})
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, repo := newService(t)
	testutil.NewTestUser(t, repo, "ana@example.com")

	_, _, err := svc.Register(context.Background(), validParams())

	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.ErrorIs(t, err, auth.ErrUserExists)
}

func TestLogin(t *testing.T) {
	svc, repo := newService(t)
	created := testutil.NewTestUser(t, repo, "bia@example.com")

	user, token, err := svc.Login(context.Background(), "bia@example.com", testutil.TestPassword)

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever-pw")

	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := newService(t)
	testutil.NewTestUser(t, repo, "bia@example.com")

	_, _, err := svc.Login(context.Background(), "bia@example.com", "wrong-password")

	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newService(t)

	_, _, err := svc.Login(context.Background(), "", "")

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
