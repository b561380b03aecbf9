// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/services/storage"
	"github.com/labstack/echo/v4"
)

// ImageStore uploads images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

// Handlers serves health checks, locations and standalone uploads.
type Handlers struct {
	repo   *repository.Repository
	images ImageStore
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, images ImageStore) *Handlers {
	return &Handlers{repo: repo, images: images}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// States lists every state.
func (h *Handlers) States(c echo.Context) error {
	states, err := h.repo.ListStates(c.Request().Context())
	if err != nil {
		return apperr.Storage(fmt.Errorf("failed to list states: %w", err))
	}
	return c.JSON(http.StatusOK, states)
}

// Cities lists the city names of the state given by its two-letter code.
func (h *Handlers) Cities(c echo.Context) error {
	uf := strings.TrimSpace(c.Param("uf"))
	if !isUF(uf) {
		return apperr.New(apperr.KindValidation, "error_invalid_uf")
	}

	ctx := c.Request().Context()
	state, err := h.repo.GetStateByUF(ctx, uf)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, "error_state_not_found", err)
		}
		return apperr.Storage(fmt.Errorf("failed to get state: %w", err))
	}

	names, err := h.repo.ListCityNames(ctx, state.ID)
	if err != nil {
		return apperr.Storage(fmt.Errorf("failed to list cities: %w", err))
	}
	return c.JSON(http.StatusOK, names)
}

// UploadResponse is returned by Upload.
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// Upload stores the image sent in the "imagem" field and returns its URL.
func (h *Handlers) Upload(c echo.Context) error {
	file, err := formFile(c, "imagem")
	if err != nil {
		return err
	}
	if file == nil || len(file.Data) == 0 {
		return apperr.New(apperr.KindValidation, "error_upload_missing_file")
	}

	url, err := h.images.Upload(c.Request().Context(), file.Data, file.Filename, file.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return apperr.Wrap(apperr.KindValidation, "error_upload_missing_file", err)
		}
		return apperr.Wrap(apperr.KindStorageFailure, "error_upload_failed", err)
	}
	return c.JSON(http.StatusOK, UploadResponse{ImageURL: url})
}

func isUF(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
