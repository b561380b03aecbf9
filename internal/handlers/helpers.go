// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/services/storage"
	"github.com/labstack/echo/v4"
)

// MessageResponse carries a localized confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// message responds with a localized confirmation.
func message(c echo.Context, status int, messageID string) error {
	return c.JSON(status, MessageResponse{Message: i18n.T(c.Request().Context(), messageID)})
}

// bind decodes the request body into v.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "error_invalid_body", err)
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindValidation, "error_invalid_id")
	}
	return id, nil
}

// queryInt returns a numeric query parameter, or nil when it is absent or
// not a number.
func queryInt(c echo.Context, name string) *int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// formInt parses a numeric form field. Empty fields yield 0.
func formInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindValidation, "error_animal_missing_fields",
			fmt.Errorf("%s is not a number: %w", name, err))
	}
	return v, nil
}

// formFile reads a single uploaded file. It returns nil when the field is
// missing.
func formFile(c echo.Context, field string) (*storage.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindValidation, "error_invalid_body", err)
	}
	file, err := readFile(fh)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// formFiles reads every file of a multipart request, whatever its field
// name, ordered by field name.
func formFiles(c echo.Context) ([]storage.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindValidation, "error_invalid_body", err)
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []storage.File
	for _, field := range fields {
		for _, fh := range form.File[field] {
			file, err := readFile(fh)
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		}
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader) (storage.File, error) {
	src, err := fh.Open()
	if err != nil {
		return storage.File{}, apperr.Wrap(apperr.KindValidation, "error_invalid_body", err)
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		return storage.File{}, apperr.Wrap(apperr.KindValidation, "error_invalid_body", err)
	}
	return storage.File{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
	}, nil
}
