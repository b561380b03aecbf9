// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"testing"

	"codeberg.org/oliverandrich/adotafacil/internal/database"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain password of users created by NewTestUser.
const TestPassword = "segredo123"

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a test user with TestPassword, a CPF and a Belo
// Horizonte address.
func NewTestUser(t *testing.T, repo *repository.Repository, email string, opts ...func(*models.User)) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cpf := "52998224725"
	user := &models.User{
		Name:         "Usuário Teste",
		Email:        email,
		PasswordHash: string(hash),
		Phone:        "31999990000",
		CPF:          &cpf,
		Address:      "Rua A, 100",
		State:        "MG",
		City:         "Belo Horizonte",
		Neighborhood: "Centro",
	}
	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

// NewTestAnimal creates an available listing owned by ownerID.
func NewTestAnimal(t *testing.T, repo *repository.Repository, ownerID int64, opts ...func(*models.Animal)) *models.Animal {
	t.Helper()
	animal := &models.Animal{
		OwnerID:     ownerID,
		Name:        "Rex",
		Species:     "Cachorro",
		Breed:       "Vira-lata",
		Years:       2,
		Color:       "Caramelo",
		Sex:         "M",
		Size:        "Médio",
		Description: "Muito dócil",
		ImageData:   `[{"url":"https://blob.test/animais/rex.jpg"}]`,
		SituationID: models.SituationAvailable,
	}
	for _, opt := range opts {
		opt(animal)
	}

	require.NoError(t, repo.CreateAnimal(context.Background(), animal))
	return animal
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// NewMultipartRequest builds a multipart/form-data request from fields and
// files.
func NewMultipartRequest(t *testing.T, method, path string, fields map[string]string, files ...FormFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		require.NoError(t, mw.WriteField(k, fields[k]))
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Filename))
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req
}

// AsUser returns a copy of req authenticated as user.
func AsUser(req *http.Request, user *models.User) *http.Request {
	ctx := auth.SetUser(req.Context(), &auth.User{ID: user.ID, Email: user.Email})
	return req.WithContext(ctx)
}
