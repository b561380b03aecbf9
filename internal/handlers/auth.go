// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	authsvc "codeberg.org/oliverandrich/adotafacil/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains registration and login handlers.
type AuthHandlers struct {
	auth *authsvc.Service
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(auth *authsvc.Service) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

// AuthResponse is returned after a successful registration or login.
type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"usuario"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// Register creates an account and signs it in.
func (h *AuthHandlers) Register(c echo.Context) error {
	var params authsvc.RegisterParams
	if err := bind(c, &params); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, token, err := h.auth.Register(ctx, params)
	if err != nil {
		return err
	}

	public := user.Public()
	public.ImageURL = nil
	return c.JSON(http.StatusCreated, AuthResponse{
		Message: i18n.T(ctx, "msg_user_created"),
		Token:   token,
		User:    public,
	})
}

// Login checks the credentials and returns a bearer token.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: i18n.T(ctx, "msg_login_ok"),
		Token:   token,
		User:    user.Public(),
	})
}
