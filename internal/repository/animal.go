// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"codeberg.org/oliverandrich/adotafacil/internal/search"
)

const animalColumns = `a.id_animal, a.id_usuario, a.nome, a.especie, a.raca, a.idade,
	IFNULL(a.meses, 0) AS meses, a.cor, a.detalhes_cor, a.sexo, a.porte, a.descricao,
	a.imagem_url, a.id_situacao, a.data_cadastro`

// nullableID turns an optional user id into a bind argument. A NULL user id
// never matches a favorite row.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// CreateAnimal inserts a listing and fills in its ID and registration time.
func (r *Repository) CreateAnimal(ctx context.Context, a *models.Animal) error {
	a.RegisteredAt = now()
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO animais (id_usuario, nome, especie, raca, idade, meses, cor, detalhes_cor,
			sexo, porte, descricao, imagem_url, id_situacao, data_cadastro)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.OwnerID, a.Name, a.Species, a.Breed, a.Years, a.Months, a.Color, a.ColorDetails,
		a.Sex, a.Size, a.Description, a.ImageData, a.SituationID, a.RegisteredAt)
	if err != nil {
		return wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetAnimal retrieves a listing with its owner's contact details. IsFavorited
// is computed for requestingUserID when given.
func (r *Repository) GetAnimal(ctx context.Context, id int64, requestingUserID *int64) (*models.AnimalRow, error) {
	var row models.AnimalRow
	err := r.q.GetContext(ctx, &row,
		`SELECT `+animalColumns+`,
			u.nome AS nome_usuario, u.telefone AS telefone_usuario,
			u.cidade AS cidade, u.estado AS estado,
			CASE WHEN fav.user_id IS NOT NULL THEN 1 ELSE 0 END AS is_favorited
		FROM animais AS a
		INNER JOIN usuarios AS u ON a.id_usuario = u.id_usuario
		LEFT JOIN favoritos AS fav ON a.id_animal = fav.animal_id AND fav.user_id = ?
		WHERE a.id_animal = ?`,
		nullableID(requestingUserID), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &row, nil
}

// GetAnimalOwner returns the owner id of a listing.
func (r *Repository) GetAnimalOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := r.q.GetContext(ctx, &ownerID, `SELECT id_usuario FROM animais WHERE id_animal = ?`, id)
	if err != nil {
		return 0, wrapError(err)
	}
	return ownerID, nil
}

// AnimalExists checks if a listing with the given id exists.
func (r *Repository) AnimalExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.q.GetContext(ctx, &count, `SELECT COUNT(*) FROM animais WHERE id_animal = ?`, id); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAnimalsByOwner returns the listings of an owner, newest first, with
// IsFavorited relative to the owner.
func (r *Repository) ListAnimalsByOwner(ctx context.Context, ownerID int64) ([]models.AnimalRow, error) {
	rows := []models.AnimalRow{}
	err := r.q.SelectContext(ctx, &rows,
		`SELECT `+animalColumns+`,
			CASE WHEN fav.user_id IS NOT NULL THEN 1 ELSE 0 END AS is_favorited
		FROM animais AS a
		LEFT JOIN favoritos AS fav ON a.id_animal = fav.animal_id AND fav.user_id = ?
		WHERE a.id_usuario = ?
		ORDER BY a.data_cadastro DESC, a.id_animal DESC`,
		ownerID, ownerID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchAnimals runs the listing search for f.
func (r *Repository) SearchAnimals(ctx context.Context, f search.Filters) ([]models.AnimalRow, error) {
	q := search.Build(f)
	rows := []models.AnimalRow{}
	if err := r.q.SelectContext(ctx, &rows, q.SQL, q.Args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateAnimal overwrites the writable attributes of a listing. The owner
// and registration time are left unchanged.
func (r *Repository) UpdateAnimal(ctx context.Context, a *models.Animal) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE animais SET nome = ?, especie = ?, raca = ?, idade = ?, meses = ?, cor = ?,
			detalhes_cor = ?, sexo = ?, porte = ?, descricao = ?, imagem_url = ?, id_situacao = ?
		WHERE id_animal = ?`,
		a.Name, a.Species, a.Breed, a.Years, a.Months, a.Color,
		a.ColorDetails, a.Sex, a.Size, a.Description, a.ImageData, a.SituationID,
		a.ID)
	if err != nil {
		return wrapError(err)
	}
	return requireAffected(res, func() error {
		_, err := r.GetAnimalOwner(ctx, a.ID)
		return err
	})
}

// DeleteAnimal deletes a listing. Its favorites must be removed first.
func (r *Repository) DeleteAnimal(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM animais WHERE id_animal = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
