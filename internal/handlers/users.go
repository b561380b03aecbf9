// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/services/users"
	"github.com/labstack/echo/v4"
)

// UserHandlers serves account profiles.
type UserHandlers struct {
	users *users.Service
}

// NewUsers creates a new UserHandlers instance.
func NewUsers(svc *users.Service) *UserHandlers {
	return &UserHandlers{users: svc}
}

// UserResponse is returned after a profile update.
type UserResponse struct {
	Message string       `json:"mensagem"`
	User    *models.User `json:"usuario"`
}

// Get returns a profile.
func (h *UserHandlers) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update edits the caller's own profile. An optional "imagem" file
// replaces the profile picture.
func (h *UserHandlers) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if !auth.IsSelf(ctx, id) {
		return apperr.New(apperr.KindForbidden, "error_forbidden")
	}

	var params users.UpdateParams
	if err := bind(c, &params); err != nil {
		return err
	}
	image, err := formFile(c, "imagem")
	if err != nil {
		return err
	}

	user, changed, err := h.users.Update(ctx, id, params, image)
	if err != nil {
		return err
	}

	messageID := "msg_user_updated"
	if !changed {
		messageID = "msg_no_changes"
	}
	return c.JSON(http.StatusOK, UserResponse{Message: i18n.T(ctx, messageID), User: user})
}
