// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"codeberg.org/oliverandrich/adotafacil/internal/config"
	"codeberg.org/oliverandrich/adotafacil/internal/services/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobName(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		filename string
		suffix   string
	}{
		{"keeps extension", "animais", "rex.PNG", ".png"},
		{"defaults extension", "animais", "rex", ".jpg"},
		{"rejects long extension", "animais", "rex.verylongext", ".jpg"},
		{"no prefix", "", "a.webp", ".webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := storage.BlobName(tt.prefix, tt.filename)

			assert.True(t, strings.HasSuffix(name, tt.suffix), name)
			if tt.prefix != "" {
				assert.True(t, strings.HasPrefix(name, tt.prefix+"/"), name)
			}
		})
	}

	assert.NotEqual(t, storage.BlobName("p", "a.jpg"), storage.BlobName("p", "a.jpg"))
}

type blobRecorder struct {
	mu          sync.Mutex
	path        string
	query       string
	contentType string
	body        []byte
}

func newBlobServer(t *testing.T, status int) (*httptest.Server, *blobRecorder) {
	t.Helper()
	rec := &blobRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.contentType = r.Header.Get("x-ms-blob-content-type")
		rec.body = body
		rec.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestAzureStore_Upload(t *testing.T) {
	srv, rec := newBlobServer(t, http.StatusCreated)
	store, err := storage.NewAzureStore(config.BlobConfig{
		Endpoint:  srv.URL + "/devstoreaccount1",
		Container: "imagens",
		SASToken:  "sv=2024&sig=secret",
		Prefix:    "animais",
	})
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), []byte("fake-image"), "rex.png", "image/png")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, srv.URL+"/devstoreaccount1/imagens/animais/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)
	assert.NotContains(t, url, "sig=")
	assert.NotContains(t, url, "%2F")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.True(t, strings.HasPrefix(rec.path, "/devstoreaccount1/imagens/animais/"), rec.path)
	assert.Contains(t, rec.query, "sig=secret")
	assert.Equal(t, "image/png", rec.contentType)
	assert.Equal(t, []byte("fake-image"), rec.body)
}

func TestAzureStore_PublicURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		blob     string
		want     string
	}{
		{"nested name", "http://127.0.0.1:10000/devstoreaccount1", "animais/rex.png", "http://127.0.0.1:10000/devstoreaccount1/imagens/animais/rex.png"},
		{"trailing slash", "http://127.0.0.1:10000/acct/", "rex.png", "http://127.0.0.1:10000/acct/imagens/rex.png"},
		{"space escaped", "http://127.0.0.1:10000/acct", "animais/foto 1.png", "http://127.0.0.1:10000/acct/imagens/animais/foto%201.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := storage.NewAzureStore(config.BlobConfig{
				Endpoint:  tt.endpoint,
				Container: "imagens",
				SASToken:  "sv=2024&sig=secret",
			})
			require.NoError(t, err)

			got, err := store.PublicURL(tt.blob)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAzureStore_Upload_DetectsContentType(t *testing.T) {
	srv, rec := newBlobServer(t, http.StatusCreated)
	store, err := storage.NewAzureStore(config.BlobConfig{Endpoint: srv.URL + "/acct", Container: "c"})
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), []byte("\x89PNG\r\n\x1a\nrest"), "x.png", "")

	require.NoError(t, err)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, "image/png", rec.contentType)
}

func TestAzureStore_Upload_Empty(t *testing.T) {
	store, err := storage.NewAzureStore(config.BlobConfig{Endpoint: "http://127.0.0.1:1/acct", Container: "c"})
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), nil, "x.jpg", "image/jpeg")

	assert.ErrorIs(t, err, storage.ErrEmptyFile)
}

func TestAzureStore_Upload_Rejected(t *testing.T) {
	srv, _ := newBlobServer(t, http.StatusForbidden)
	store, err := storage.NewAzureStore(config.BlobConfig{Endpoint: srv.URL + "/acct", Container: "c"})
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), []byte("data"), "x.jpg", "image/jpeg")

	assert.Error(t, err)
}
