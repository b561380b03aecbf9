// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
)

// IsFavorite checks if the user has favorited the listing.
func (r *Repository) IsFavorite(ctx context.Context, userID, animalID int64) (bool, error) {
	var count int64
	err := r.q.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM favoritos WHERE user_id = ? AND animal_id = ?`, userID, animalID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddFavorite inserts a favorite. An existing pair fails with ErrDuplicate.
func (r *Repository) AddFavorite(ctx context.Context, userID, animalID int64) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO favoritos (user_id, animal_id) VALUES (?, ?)`, userID, animalID)
	return wrapError(err)
}

// RemoveFavorite deletes a favorite and reports whether one existed.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, animalID int64) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM favoritos WHERE user_id = ? AND animal_id = ?`, userID, animalID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteAnimalFavorites removes the listing from every user's favorites.
func (r *Repository) DeleteAnimalFavorites(ctx context.Context, animalID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM favoritos WHERE animal_id = ?`, animalID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListFavoriteAnimals returns the listings a user has favorited, by id.
func (r *Repository) ListFavoriteAnimals(ctx context.Context, userID int64) ([]models.AnimalRow, error) {
	rows := []models.AnimalRow{}
	err := r.q.SelectContext(ctx, &rows,
		`SELECT `+animalColumns+`, 1 AS is_favorited
		FROM animais AS a
		JOIN favoritos AS fav ON a.id_animal = fav.animal_id
		WHERE fav.user_id = ?
		ORDER BY a.id_animal`,
		userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
