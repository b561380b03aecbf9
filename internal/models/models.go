// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

// Situation ids stored in animais.id_situacao.
const (
	SituationAvailable = 1
	SituationAdopted   = 2
)

// State is a Brazilian federative unit.
type State struct {
	ID   int64  `db:"id" json:"id"`
	UF   string `db:"uf" json:"uf"`
	Name string `db:"nome" json:"nome"`
}

// City belongs to a State through StateID.
type City struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"nome" json:"nome"`
	StateID int64  `db:"uf" json:"-"`
}
