// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/search"
	"codeberg.org/oliverandrich/adotafacil/internal/services/animals"
	"github.com/labstack/echo/v4"
)

// AnimalHandlers serves adoption listings and favorites.
type AnimalHandlers struct {
	animals *animals.Service
}

// NewAnimals creates a new AnimalHandlers instance.
func NewAnimals(svc *animals.Service) *AnimalHandlers {
	return &AnimalHandlers{animals: svc}
}

// CreatedResponse is returned after a listing is created.
type CreatedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id_animal"`
}

// AnimalResponse wraps a single listing.
type AnimalResponse struct {
	Animal models.AnimalView `json:"animal"`
}

// FavoriteResponse reports the favorite state after a toggle.
type FavoriteResponse struct {
	Message     string `json:"message"`
	IsFavorited bool   `json:"isFavorited"`
}

// Search lists the listings matching the query string filters.
func (h *AnimalHandlers) Search(c echo.Context) error {
	ctx := c.Request().Context()
	views, err := h.animals.Search(ctx, searchFilters(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Create publishes a listing for the caller from a multipart form with at
// least one image.
func (h *AnimalHandlers) Create(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return apperr.New(apperr.KindUnauthorized, "error_unauthorized")
	}

	input, err := animalInput(c)
	if err != nil {
		return err
	}
	files, err := formFiles(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	animal, err := h.animals.Create(ctx, user.ID, input, files)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedResponse{
		Message: i18n.T(ctx, "msg_animal_created"),
		ID:      animal.ID,
	})
}

// Get returns one listing with its owner's contact.
func (h *AnimalHandlers) Get(c echo.Context) error {
	id, err := pathID(c, "idAnimal")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	view, err := h.animals.Get(ctx, id, auth.UserID(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, AnimalResponse{Animal: view})
}

// Update overwrites a listing owned by the caller. "imagens_existentes"
// holds a JSON array of the image URLs to keep; uploaded files are
// appended after them.
func (h *AnimalHandlers) Update(c echo.Context) error {
	id, err := pathID(c, "idAnimal")
	if err != nil {
		return err
	}
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return apperr.New(apperr.KindUnauthorized, "error_unauthorized")
	}

	input, err := animalInput(c)
	if err != nil {
		return err
	}
	kept, err := keptImages(c.FormValue("imagens_existentes"))
	if err != nil {
		return err
	}
	files, err := formFiles(c)
	if err != nil {
		return err
	}

	if err := h.animals.Update(c.Request().Context(), id, user.ID, input, kept, files); err != nil {
		return err
	}
	return message(c, http.StatusOK, "msg_animal_updated")
}

// Delete removes a listing owned by the caller.
func (h *AnimalHandlers) Delete(c echo.Context) error {
	id, err := pathID(c, "idAnimal")
	if err != nil {
		return err
	}
	user := auth.GetUser(c.Request().Context())
	if user == nil {
		return apperr.New(apperr.KindUnauthorized, "error_unauthorized")
	}

	if err := h.animals.Delete(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleFavorite adds the listing to the caller's favorites or removes it.
func (h *AnimalHandlers) ToggleFavorite(c echo.Context) error {
	id, err := pathID(c, "idAnimal")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	user := auth.GetUser(ctx)
	if user == nil {
		return apperr.New(apperr.KindUnauthorized, "error_unauthorized")
	}

	favorited, err := h.animals.ToggleFavorite(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if favorited {
		return c.JSON(http.StatusCreated, FavoriteResponse{Message: i18n.T(ctx, "msg_favorite_added"), IsFavorited: true})
	}
	return c.JSON(http.StatusOK, FavoriteResponse{Message: i18n.T(ctx, "msg_favorite_removed"), IsFavorited: false})
}

// ListByOwner returns the listings published by a user.
func (h *AnimalHandlers) ListByOwner(c echo.Context) error {
	id, err := pathID(c, "idUsuario")
	if err != nil {
		return err
	}
	views, err := h.animals.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Favorites returns the caller's favorited listings.
func (h *AnimalHandlers) Favorites(c echo.Context) error {
	id, err := pathID(c, "idUsuario")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if !auth.IsSelf(ctx, id) {
		return apperr.New(apperr.KindForbidden, "error_forbidden")
	}

	views, err := h.animals.Favorites(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func searchFilters(c echo.Context) search.Filters {
	query := func(name string) string {
		return strings.TrimSpace(c.QueryParam(name))
	}
	return search.Filters{
		RequestingUserID: auth.UserID(c.Request().Context()),
		Name:             query("nome"),
		Breed:            query("raca"),
		MinYears:         queryInt(c, "min_idade"),
		MaxYears:         queryInt(c, "max_idade"),
		MinMonths:        queryInt(c, "min_meses"),
		MaxMonths:        queryInt(c, "max_meses"),
		Sex:              query("sexo"),
		Size:             query("porte"),
		FreeText:         query("busca"),
		SituationID:      queryInt(c, "id_situacao"),
		State:            query("estado"),
		City:             query("cidade"),
		Neighborhood:     query("bairro"),
	}
}

func animalInput(c echo.Context) (models.AnimalInput, error) {
	years, err := formInt(c, "idade")
	if err != nil {
		return models.AnimalInput{}, err
	}
	months, err := formInt(c, "meses")
	if err != nil {
		return models.AnimalInput{}, err
	}
	situation, err := formInt(c, "id_situacao")
	if err != nil {
		return models.AnimalInput{}, err
	}

	return models.AnimalInput{
		Name:         c.FormValue("nome"),
		Species:      c.FormValue("especie"),
		Breed:        c.FormValue("raca"),
		Years:        years,
		Months:       months,
		Color:        c.FormValue("cor"),
		ColorDetails: c.FormValue("detalhes_cor"),
		Sex:          c.FormValue("sexo"),
		Size:         c.FormValue("porte"),
		Description:  c.FormValue("descricao"),
		SituationID:  situation,
	}, nil
}

// keptImages decodes the JSON array of image URLs to keep on update.
func keptImages(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "error_invalid_images", err)
	}
	kept := urls[:0]
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	return kept, nil
}
