// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders errors as a localized JSON message. It is installed
// as the echo HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, messageID := classify(err)
	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request_failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", status,
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, ErrorResponse{Error: i18n.T(ctx, messageID)})
	}
	if writeErr != nil {
		slog.ErrorContext(ctx, "failed to write error response", "error", writeErr)
	}
}

// classify maps err to a status code and a translation id.
func classify(err error) (int, string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Kind.Status(), apperr.MessageIDOf(ae)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound:
			return he.Code, "error_not_found"
		case http.StatusMethodNotAllowed:
			return he.Code, "error_method_not_allowed"
		case http.StatusRequestEntityTooLarge:
			return he.Code, "error_body_too_large"
		case http.StatusUnsupportedMediaType, http.StatusBadRequest:
			return http.StatusBadRequest, "error_invalid_body"
		case http.StatusUnauthorized:
			return he.Code, "error_unauthorized"
		case http.StatusForbidden:
			return he.Code, "error_forbidden"
		}
		if he.Code < http.StatusInternalServerError {
			return he.Code, "error_validation"
		}
		return he.Code, "error_internal"
	}

	return http.StatusInternalServerError, "error_internal"
}
