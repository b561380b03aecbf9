// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package apperr classifies service errors so handlers can turn them into
// HTTP responses without inspecting every sentinel.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the category of a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
	KindExpired
	KindDeliveryFailure
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindExpired:
		return "expired"
	case KindDeliveryFailure:
		return "delivery_failure"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// Status maps the kind to an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindExpired:
		return http.StatusGone
	case KindDeliveryFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error. MessageID names the user-facing translation;
// Err keeps the internal cause for logs and errors.Is.
type Error struct {
	Kind      Kind
	MessageID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.MessageID + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.MessageID
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error without a cause.
func New(kind Kind, messageID string) *Error {
	return &Error{Kind: kind, MessageID: messageID}
}

// Wrap creates a classified error around err.
func Wrap(kind Kind, messageID string, err error) *Error {
	return &Error{Kind: kind, MessageID: messageID, Err: err}
}

// Storage wraps a data-store failure.
func Storage(err error) *Error {
	return Wrap(KindStorageFailure, "error_storage", err)
}

// KindOf returns the kind of err, or KindUnknown if it is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageIDOf returns the translation id for err. Unclassified errors get the
// generic internal error message.
func MessageIDOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.MessageID != "" {
		return e.MessageID
	}
	return "error_internal"
}
