// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/services/recovery"
	"github.com/labstack/echo/v4"
)

// RecoveryHandlers serves the password recovery flow.
type RecoveryHandlers struct {
	recovery *recovery.Service
}

// NewRecovery creates a new RecoveryHandlers instance.
func NewRecovery(svc *recovery.Service) *RecoveryHandlers {
	return &RecoveryHandlers{recovery: svc}
}

// RecoveryResponse confirms a recovery step.
type RecoveryResponse struct {
	Message string `json:"mensagem"`
}

type sendCodeRequest struct {
	Email     string `json:"email"`
	Document  string `json:"documento"`
	IsCompany bool   `json:"isCnpj"`
}

type confirmCodeRequest struct {
	Email       string `json:"email"`
	Code        string `json:"codigo"`
	NewPassword string `json:"novaSenha"`
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"novaSenha"`
}

// SendCode emails a recovery code to an account identified by its email
// and CPF or CNPJ.
func (h *RecoveryHandlers) SendCode(c echo.Context) error {
	var req sendCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.recovery.Issue(c.Request().Context(), req.Email, req.Document, req.IsCompany); err != nil {
		return err
	}
	return h.respond(c, "msg_code_sent")
}

// ConfirmCode redeems a recovery code and sets the new password.
func (h *RecoveryHandlers) ConfirmCode(c echo.Context) error {
	var req confirmCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.recovery.Confirm(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return err
	}
	return h.respond(c, "msg_password_updated")
}

// ChangePassword sets a new password for the signed-in account. The body
// email must be the caller's own.
func (h *RecoveryHandlers) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	email := req.Email
	if email != "" {
		if !auth.HasEmail(ctx, email) {
			return apperr.New(apperr.KindForbidden, "error_forbidden")
		}
		email = auth.GetUser(ctx).Email
	}
	if err := h.recovery.ForceChangePassword(ctx, email, req.NewPassword); err != nil {
		return err
	}
	return h.respond(c, "msg_password_updated")
}

func (h *RecoveryHandlers) respond(c echo.Context, messageID string) error {
	return c.JSON(http.StatusOK, RecoveryResponse{Message: i18n.T(c.Request().Context(), messageID)})
}
