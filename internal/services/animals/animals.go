// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package animals manages adoption listings and favorites.
package animals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/metrics"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/search"
	"codeberg.org/oliverandrich/adotafacil/internal/services/storage"
)

var (
	ErrAnimalNotFound = errors.New("animal not found")
	ErrNotOwner       = errors.New("user does not own the animal")
	ErrNoImages       = errors.New("no images uploaded")
)

// ImageStore uploads listing pictures.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
}

type Service struct {
	repo   *repository.Repository
	images ImageStore
}

func NewService(repo *repository.Repository, images ImageStore) *Service {
	return &Service{repo: repo, images: images}
}

// Create stores a new listing owned by ownerID with the uploaded images.
func (s *Service) Create(ctx context.Context, ownerID int64, input models.AnimalInput, images []storage.File) (*models.Animal, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperr.Wrap(apperr.KindValidation, "error_animal_no_images", ErrNoImages)
	}

	urls, err := s.upload(ctx, images)
	if err != nil {
		return nil, err
	}
	imageData, err := models.EncodeImageURLs(urls)
	if err != nil {
		return nil, err
	}

	animal := newAnimal(input)
	animal.OwnerID = ownerID
	animal.ImageData = imageData

	if err := s.repo.CreateAnimal(ctx, animal); err != nil {
		orphaned(0, ownerID, urls)
		return nil, apperr.Storage(fmt.Errorf("failed to create animal: %w", err))
	}

	slog.Info("animal_created", "animal_id", animal.ID, "user_id", ownerID, "images", len(urls))
	return animal, nil
}

// Get returns a listing with its owner's contact details. IsFavorited is
// relative to requestingUserID when given.
func (s *Service) Get(ctx context.Context, id int64, requestingUserID *int64) (models.AnimalView, error) {
	row, err := s.repo.GetAnimal(ctx, id, requestingUserID)
	if err != nil {
		return models.AnimalView{}, notFoundOrStorage(err)
	}
	return row.View(), nil
}

// ListByOwner returns the listings of an owner, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]models.AnimalView, error) {
	rows, err := s.repo.ListAnimalsByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("failed to list animals: %w", err))
	}
	return models.Views(rows), nil
}

// Search returns the listings matching f in ranking order.
func (s *Service) Search(ctx context.Context, f search.Filters) ([]models.AnimalView, error) {
	rows, err := s.repo.SearchAnimals(ctx, f)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("failed to search animals: %w", err))
	}
	metrics.SearchResults.Observe(float64(len(rows)))
	return models.Views(rows), nil
}

// Update overwrites a listing owned by actorID. Its images become keptURLs
// followed by the newly uploaded images. Marking the listing adopted removes
// it from every favorites list.
func (s *Service) Update(ctx context.Context, id, actorID int64, input models.AnimalInput, keptURLs []string, images []storage.File) error {
	if err := validateInput(&input); err != nil {
		return err
	}
	if err := s.authorize(ctx, id, actorID); err != nil {
		return err
	}

	uploaded, err := s.upload(ctx, images)
	if err != nil {
		return err
	}
	imageData, err := models.EncodeImageURLs(slices.Concat(keptURLs, uploaded))
	if err != nil {
		return err
	}

	animal := newAnimal(input)
	animal.ID = id
	animal.ImageData = imageData

	var cleared int64
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.UpdateAnimal(ctx, animal); err != nil {
			return err
		}
		if animal.SituationID == models.SituationAdopted {
			n, err := tx.DeleteAnimalFavorites(ctx, id)
			if err != nil {
				return err
			}
			cleared = n
		}
		return nil
	})
	if err != nil {
		orphaned(id, actorID, uploaded)
		return notFoundOrStorage(err)
	}

	slog.Info("animal_updated", "animal_id", id, "user_id", actorID, "favorites_cleared", cleared)
	return nil
}

// Delete removes a listing owned by actorID together with its favorites.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	if err := s.authorize(ctx, id, actorID); err != nil {
		return err
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.DeleteAnimalFavorites(ctx, id); err != nil {
			return err
		}
		return tx.DeleteAnimal(ctx, id)
	})
	if err != nil {
		return notFoundOrStorage(err)
	}

	slog.Info("animal_deleted", "animal_id", id, "user_id", actorID)
	return nil
}

// ToggleFavorite adds the listing to the user's favorites, or removes it if
// it is already there. It reports whether the listing is now a favorite.
func (s *Service) ToggleFavorite(ctx context.Context, animalID, userID int64) (bool, error) {
	exists, err := s.repo.AnimalExists(ctx, animalID)
	if err != nil {
		return false, apperr.Storage(fmt.Errorf("failed to look up animal: %w", err))
	}
	if !exists {
		return false, apperr.Wrap(apperr.KindNotFound, "error_animal_not_found", ErrAnimalNotFound)
	}

	favorited, err := s.repo.IsFavorite(ctx, userID, animalID)
	if err != nil {
		return false, apperr.Storage(fmt.Errorf("failed to look up favorite: %w", err))
	}
	if favorited {
		if _, err := s.repo.RemoveFavorite(ctx, userID, animalID); err != nil {
			return false, apperr.Storage(fmt.Errorf("failed to remove favorite: %w", err))
		}
		slog.Info("favorite_removed", "animal_id", animalID, "user_id", userID)
		return false, nil
	}

	if err := s.repo.AddFavorite(ctx, userID, animalID); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return false, apperr.Storage(fmt.Errorf("failed to add favorite: %w", err))
	}
	slog.Info("favorite_added", "animal_id", animalID, "user_id", userID)
	return true, nil
}

// Favorites returns the listings a user has favorited.
func (s *Service) Favorites(ctx context.Context, userID int64) ([]models.AnimalView, error) {
	rows, err := s.repo.ListFavoriteAnimals(ctx, userID)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("failed to list favorites: %w", err))
	}
	return models.Views(rows), nil
}

func (s *Service) authorize(ctx context.Context, id, actorID int64) error {
	ownerID, err := s.repo.GetAnimalOwner(ctx, id)
	if err != nil {
		return notFoundOrStorage(err)
	}
	if ownerID != actorID {
		slog.Warn("animal_access_denied", "animal_id", id, "user_id", actorID)
		return apperr.Wrap(apperr.KindForbidden, "error_forbidden", ErrNotOwner)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, images []storage.File) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.images.Upload(ctx, img.Data, img.Filename, img.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStorageFailure, "error_upload_failed", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// orphaned reports blobs uploaded for a listing write that did not commit.
// Nothing references them afterwards.
func orphaned(animalID, userID int64, urls []string) {
	if len(urls) == 0 {
		return
	}
	slog.Warn("animal_images_orphaned", "animal_id", animalID, "user_id", userID, "urls", urls)
}

func validateInput(in *models.AnimalInput) error {
	for _, f := range []*string{&in.Name, &in.Species, &in.Breed, &in.Color, &in.Sex, &in.Size} {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			return apperr.New(apperr.KindValidation, "error_animal_missing_fields")
		}
	}
	if in.SituationID <= 0 || in.Years < 0 || in.Months < 0 {
		return apperr.New(apperr.KindValidation, "error_animal_missing_fields")
	}
	return nil
}

func newAnimal(in models.AnimalInput) *models.Animal {
	return &models.Animal{
		Name:         in.Name,
		Species:      in.Species,
		Breed:        in.Breed,
		Years:        in.Years,
		Months:       in.Months,
		Color:        in.Color,
		ColorDetails: in.ColorDetails,
		Sex:          in.Sex,
		Size:         in.Size,
		Description:  in.Description,
		SituationID:  in.SituationID,
	}
}

func notFoundOrStorage(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, "error_animal_not_found", ErrAnimalNotFound)
	}
	return apperr.Storage(err)
}
