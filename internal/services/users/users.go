// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package users reads and edits account profiles.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/services/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/services/storage"
	"codeberg.org/oliverandrich/adotafacil/internal/validation"
)

// ImageStore uploads profile pictures.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

type Service struct {
	repo   *repository.Repository
	images ImageStore
	policy *auth.PasswordPolicy
}

func NewService(repo *repository.Repository, images ImageStore) *Service {
	return &Service{
		repo:   repo,
		images: images,
		policy: auth.DefaultPasswordPolicy(),
	}
}

// UpdateParams holds the profile fields sent by the client. Empty fields are
// left unchanged.
type UpdateParams struct { //nolint:govet // fieldalignment: readability over optimization
	Name         string `json:"nome" form:"nome"`
	Email        string `json:"email" form:"email" validate:"omitempty,email"`
	Phone        string `json:"telefone" form:"telefone"`
	Password     string `json:"senha" form:"senha"`
	Address      string `json:"endereco" form:"endereco"`
	State        string `json:"estado" form:"estado"`
	City         string `json:"cidade" form:"cidade"`
	Neighborhood string `json:"bairro" form:"bairro"`
}

// Get returns the public profile of a user.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, "error_user_not_found", err)
		}
		return nil, apperr.Storage(fmt.Errorf("failed to get user: %w", err))
	}
	return user, nil
}

// Update applies the non-empty fields of params and, when image is given,
// replaces the profile picture. It reports whether anything changed.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams, image *storage.File) (*models.User, bool, error) {
	params.Email = strings.TrimSpace(params.Email)
	if err := validation.Struct(params); err != nil {
		return nil, false, err
	}

	upd := models.UserUpdate{
		Name:         optional(params.Name),
		Email:        optional(params.Email),
		Phone:        optional(params.Phone),
		Address:      optional(params.Address),
		State:        optional(params.State),
		City:         optional(params.City),
		Neighborhood: optional(params.Neighborhood),
	}

	if params.Password != "" {
		if err := s.policy.Validate(params.Password); err != nil {
			return nil, false, err
		}
		hash, err := auth.HashPassword(params.Password)
		if err != nil {
			return nil, false, err
		}
		upd.PasswordHash = &hash
	}

	if upd.IsEmpty() && image == nil {
		user, err := s.Get(ctx, id)
		return user, false, err
	}

	// Upload only for an existing account.
	if _, err := s.Get(ctx, id); err != nil {
		return nil, false, err
	}

	if image != nil {
		url, err := s.images.Upload(ctx, image.Data, image.Filename, image.ContentType)
		if err != nil {
			return nil, false, apperr.Wrap(apperr.KindStorageFailure, "error_upload_failed", err)
		}
		upd.ImageURL = &url
	}

	if err := s.repo.UpdateUser(ctx, id, &upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, false, apperr.Wrap(apperr.KindNotFound, "error_user_not_found", err)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, false, apperr.Wrap(apperr.KindConflict, "error_email_taken", err)
		default:
			return nil, false, apperr.Storage(fmt.Errorf("failed to update user: %w", err))
		}
	}

	slog.Info("user_updated", "user_id", id, "new_image", image != nil, "new_password", upd.PasswordHash != nil)

	user, err := s.Get(ctx, id)
	return user, true, err
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
