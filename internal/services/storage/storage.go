// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package storage uploads images to Azure Blob Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/config"
	"codeberg.org/oliverandrich/adotafacil/internal/metrics"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/google/uuid"
)

// DefaultExtension is used when an uploaded file name has none.
const DefaultExtension = ".jpg"

// ErrEmptyFile is returned when there is nothing to upload.
var ErrEmptyFile = errors.New("empty file")

// File is an uploaded image held in memory.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}

// AzureStore writes blobs into a single container.
type AzureStore struct {
	client     *azblob.Client
	serviceURL string
	container  string
	prefix     string
}

// NewAzureStore creates a store authenticated by the SAS token in cfg.
func NewAzureStore(cfg config.BlobConfig) (*AzureStore, error) {
	serviceURL := cfg.ServiceURL() + "/"
	if cfg.SASToken != "" {
		serviceURL += "?" + cfg.SASToken
	}

	client, err := azblob.NewClientWithNoCredential(serviceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	return &AzureStore{
		client:     client,
		serviceURL: cfg.ServiceURL(),
		container:  cfg.Container,
		prefix:     cfg.Prefix,
	}, nil
}

// Upload stores data under <prefix>/<uuid><ext> and returns its public URL.
// The URL never carries the SAS token.
func (s *AzureStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	name := BlobName(s.prefix, filename)
	_, err := s.client.UploadBuffer(ctx, s.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	metrics.BlobUploads.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		slog.Error("blob_upload_failed", "blob", name, "error", err)
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	slog.Debug("blob_uploaded", "blob", name, "size", len(data))
	return s.PublicURL(name)
}

// PublicURL returns the address of a blob with the slashes of its name kept
// as path separators.
func (s *AzureStore) PublicURL(name string) (string, error) {
	return url.JoinPath(s.serviceURL, s.container, name)
}

// BlobName returns a collision-free blob name keeping the file extension.
func BlobName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 6 {
		ext = DefaultExtension
	}
	return path.Join(prefix, uuid.NewString()+ext)
}
