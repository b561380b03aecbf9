// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package search builds the parameterized SQL behind the animal listing
// search.
package search

import (
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
)

// Ceilings applied to an upper age bound when only one of its parts is given.
const (
	DefaultMaxYears  = 100
	DefaultMaxMonths = 11
)

// BlackColor is the stored color value that sorts first.
const BlackColor = "preto"

// Filters holds the optional search criteria. Nil pointers and empty strings
// mean "not filtered".
type Filters struct { //nolint:govet // fieldalignment: readability over optimization
	RequestingUserID *int64
	Name             string
	Breed            string
	MinYears         *int
	MaxYears         *int
	MinMonths        *int
	MaxMonths        *int
	Sex              string
	Size             string
	FreeText         string
	SituationID      *int
	State            string
	City             string
	Neighborhood     string
}

// Query is a SQL statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

const selectListings = `SELECT a.id_animal, a.id_usuario, a.nome, a.especie, a.raca, a.idade,
	IFNULL(a.meses, 0) AS meses, a.cor, a.detalhes_cor, a.sexo, a.porte, a.descricao,
	a.imagem_url, a.id_situacao, a.data_cadastro,
	u.cidade AS cidade, u.estado AS estado,
	CASE WHEN fav.user_id IS NOT NULL THEN 1 ELSE 0 END AS is_favorited
FROM animais AS a
INNER JOIN usuarios AS u ON a.id_usuario = u.id_usuario
LEFT JOIN favoritos AS fav ON a.id_animal = fav.animal_id AND fav.user_id = ?`

const ageInMonths = `((a.idade * 12) + IFNULL(a.meses, 0))`

// OrderBy puts black animals first, then older and longer-listed ones.
const OrderBy = `ORDER BY CASE WHEN LOWER(a.cor) = '` + BlackColor + `' THEN 0 ELSE 1 END ASC, ` +
	`a.idade DESC, IFNULL(a.meses, 0) DESC, a.data_cadastro DESC`

// predicate is one optional WHERE condition.
type predicate struct {
	apply  bool
	clause string
	args   []any
}

// Build assembles the search query for f. Values are always bound as
// arguments; only fixed clauses end up in the SQL text.
func Build(f Filters) Query {
	var favUser any
	if f.RequestingUserID != nil {
		favUser = *f.RequestingUserID
	}

	situation := models.SituationAvailable
	if f.SituationID != nil {
		situation = *f.SituationID
	}

	free := contains(f.FreeText)
	predicates := []predicate{
		{true, "a.id_situacao = ?", []any{situation}},
		{f.Name != "", "LOWER(a.nome) LIKE ?", []any{contains(f.Name)}},
		{f.Breed != "", "LOWER(a.raca) LIKE ?", []any{contains(f.Breed)}},
		{f.Sex != "", "a.sexo = ?", []any{f.Sex}},
		{f.Size != "", "a.porte = ?", []any{f.Size}},
		{
			f.FreeText != "",
			"(LOWER(a.nome) LIKE ? OR LOWER(a.raca) LIKE ? OR LOWER(a.descricao) LIKE ? OR LOWER(a.especie) LIKE ?)",
			[]any{free, free, free, free},
		},
		{
			f.MinYears != nil || f.MinMonths != nil,
			ageInMonths + " >= ?",
			[]any{totalMonths(f.MinYears, f.MinMonths, 0, 0)},
		},
		{
			f.MaxYears != nil || f.MaxMonths != nil,
			ageInMonths + " <= ?",
			[]any{totalMonths(f.MaxYears, f.MaxMonths, DefaultMaxYears, DefaultMaxMonths)},
		},
		{f.State != "", "u.estado = ?", []any{f.State}},
		{f.City != "", "u.cidade = ?", []any{f.City}},
		{f.Neighborhood != "", "LOWER(u.bairro) LIKE ?", []any{contains(f.Neighborhood)}},
	}

	var sb strings.Builder
	sb.WriteString(selectListings)
	args := []any{favUser}

	for i, p := range predicates {
		if !p.apply {
			continue
		}
		if i == 0 {
			sb.WriteString("\nWHERE ")
		} else {
			sb.WriteString("\n  AND ")
		}
		sb.WriteString(p.clause)
		args = append(args, p.args...)
	}

	sb.WriteString("\n")
	sb.WriteString(OrderBy)

	return Query{SQL: sb.String(), Args: args}
}

// contains returns the LIKE pattern for a case-insensitive substring match.
func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func totalMonths(years, months *int, defYears, defMonths int) int {
	y, m := defYears, defMonths
	if years != nil {
		y = *years
	}
	if months != nil {
		m = *months
	}
	return y*12 + m
}
