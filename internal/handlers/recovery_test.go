// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/handlers"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/services/recovery"
	"codeberg.org/oliverandrich/adotafacil/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRecoveryHandlers(t *testing.T) (*handlers.RecoveryHandlers, *repository.Repository, *testutil.FakeMailer) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	mailer := &testutil.FakeMailer{}
	return handlers.NewRecovery(recovery.NewService(repo, mailer, 10*time.Minute)), repo, mailer
}

func assertPassword(t *testing.T, repo *repository.Repository, email, password string) {
	t.Helper()
	user, err := repo.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
}

func TestRecoveryFlow(t *testing.T) {
	h, repo, mailer := newTestRecoveryHandlers(t)
	testutil.NewTestUser(t, repo, "ana@example.com")
	e := echo.New()

	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/recuperar-senha/enviar-codigo",
		strings.NewReader(`{"email":"ana@example.com","documento":"529.982.247-25","isCnpj":false}`))
	require.NoError(t, h.SendCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mensagem"`)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].To)

	body := `{"email":"ana@example.com","codigo":"` + sent[0].Code + `","novaSenha":"nova-senha-forte"}`
	c, rec = testutil.NewEchoContext(e, http.MethodPost, "/api/recuperar-senha/confirmar-codigo", strings.NewReader(body))
	require.NoError(t, h.ConfirmCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assertPassword(t, repo, "ana@example.com", "nova-senha-forte")

	c, _ = testutil.NewEchoContext(e, http.MethodPost, "/api/recuperar-senha/confirmar-codigo", strings.NewReader(body))
	err := h.ConfirmCode(c)
	assert.Equal(t, "error_recovery_code_invalid", apperr.MessageIDOf(err))
}

func TestSendCode_Errors(t *testing.T) {
	h, repo, mailer := newTestRecoveryHandlers(t)
	testutil.NewTestUser(t, repo, "ana@example.com")

	tests := []struct {
		name string
		body string
		kind apperr.Kind
	}{
		{"missing document", `{"email":"ana@example.com"}`, apperr.KindValidation},
		{"wrong document", `{"email":"ana@example.com","documento":"11144477735"}`, apperr.KindNotFound},
		{"document is not a cnpj", `{"email":"ana@example.com","documento":"52998224725","isCnpj":true}`, apperr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			c, _ := testutil.NewEchoContext(e, http.MethodPost, "/api/recuperar-senha/enviar-codigo", strings.NewReader(tt.body))

			err := h.SendCode(c)

			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
	assert.Empty(t, mailer.Sent())
}

func TestSendCode_ActiveCode(t *testing.T) {
	h, repo, _ := newTestRecoveryHandlers(t)
	testutil.NewTestUser(t, repo, "ana@example.com")
	body := `{"email":"ana@example.com","documento":"52998224725"}`

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodPost, "/api/recuperar-senha/enviar-codigo", strings.NewReader(body))
	require.NoError(t, h.SendCode(c))

	c, _ = testutil.NewEchoContext(e, http.MethodPost, "/api/recuperar-senha/enviar-codigo", strings.NewReader(body))
	err := h.SendCode(c)

	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "error_recovery_code_active", apperr.MessageIDOf(err))
}

func TestChangePassword(t *testing.T) {
	h, repo, _ := newTestRecoveryHandlers(t)
	user := testutil.NewTestUser(t, repo, "ana@example.com")

	e := echo.New()
	req := testutil.NewRequest(http.MethodPost, "/api/recuperar-senha/alterar-senha",
		strings.NewReader(`{"email":"ANA@example.com","novaSenha":"nova-senha-forte"}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(testutil.AsUser(req, user), rec)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assertPassword(t, repo, "ana@example.com", "nova-senha-forte")
}

func TestChangePassword_AccountGone(t *testing.T) {
	h, _, _ := newTestRecoveryHandlers(t)
	gone := &models.User{ID: 999, Email: "ghost@example.com"}

	e := echo.New()
	req := testutil.NewRequest(http.MethodPost, "/api/recuperar-senha/alterar-senha",
		strings.NewReader(`{"email":"ghost@example.com","novaSenha":"nova-senha-forte"}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(testutil.AsUser(req, gone), rec)

	require.NoError(t, h.ChangePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePassword_OtherAccount(t *testing.T) {
	h, repo, _ := newTestRecoveryHandlers(t)
	user := testutil.NewTestUser(t, repo, "ana@example.com")
	testutil.NewTestUser(t, repo, "bia@example.com")

	e := echo.New()
	req := testutil.NewRequest(http.MethodPost, "/api/recuperar-senha/alterar-senha",
		strings.NewReader(`{"email":"bia@example.com","novaSenha":"nova-senha-forte"}`))
	c := e.NewContext(testutil.AsUser(req, user), httptest.NewRecorder())

	err := h.ChangePassword(c)

	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assertPassword(t, repo, "bia@example.com", testutil.TestPassword)
}

func TestChangePassword_MissingFields(t *testing.T) {
	h, repo, _ := newTestRecoveryHandlers(t)
	user := testutil.NewTestUser(t, repo, "ana@example.com")

	e := echo.New()
	req := testutil.NewRequest(http.MethodPost, "/api/recuperar-senha/alterar-senha",
		strings.NewReader(`{"email":"ana@example.com"}`))
	c := e.NewContext(testutil.AsUser(req, user), httptest.NewRecorder())

	err := h.ChangePassword(c)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
