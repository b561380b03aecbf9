// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
)

// GetStateByUF retrieves a state by its two-letter code.
func (r *Repository) GetStateByUF(ctx context.Context, uf string) (*models.State, error) {
	var state models.State
	err := r.q.GetContext(ctx, &state, `SELECT id, uf, nome FROM estado WHERE uf = ?`, strings.ToUpper(uf))
	if err != nil {
		return nil, wrapError(err)
	}
	return &state, nil
}

// ListStates returns every state ordered by code.
func (r *Repository) ListStates(ctx context.Context) ([]models.State, error) {
	states := []models.State{}
	if err := r.q.SelectContext(ctx, &states, `SELECT id, uf, nome FROM estado ORDER BY uf`); err != nil {
		return nil, err
	}
	return states, nil
}

// ListCityNames returns the city names of a state in ascending order.
func (r *Repository) ListCityNames(ctx context.Context, stateID int64) ([]string, error) {
	names := []string{}
	err := r.q.SelectContext(ctx, &names, `SELECT nome FROM cidade WHERE uf = ? ORDER BY nome ASC`, stateID)
	if err != nil {
		return nil, err
	}
	return names, nil
}
