// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"time"
)

// User is a marketplace account. Location fields are used by the animal
// search to filter listings by where their owner lives.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id_usuario" json:"id_usuario"`
	Name         string    `db:"nome" json:"nome"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"senha" json:"-"`
	Phone        string    `db:"telefone" json:"telefone"`
	CPF          *string   `db:"cpf" json:"-"`
	CNPJ         *string   `db:"cnpj" json:"-"`
	ImageURL     *string   `db:"imagem_url" json:"imagem_url"`
	Address      string    `db:"endereco" json:"endereco"`
	State        string    `db:"estado" json:"estado"`
	City         string    `db:"cidade" json:"cidade"`
	Neighborhood string    `db:"bairro" json:"bairro"`
	SituationID  int       `db:"id_situacao" json:"-"`
	CreatedAt    time.Time `db:"data_cadastro" json:"data_cadastro"`
}

// PublicUser is the subset of a user returned after login or registration.
type PublicUser struct {
	ID       int64   `json:"id_usuario"`
	Name     string  `json:"nome"`
	Email    string  `json:"email"`
	Phone    string  `json:"telefone"`
	ImageURL *string `json:"imagem_url,omitempty"`
}

// Public returns the login/registration view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		ImageURL: u.ImageURL,
	}
}

// UserUpdate holds the profile fields that may be changed. Nil fields are
// left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Phone        *string
	Address      *string
	State        *string
	City         *string
	Neighborhood *string
	ImageURL     *string
	PasswordHash *string
}

// IsEmpty reports whether the update changes nothing.
func (u *UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Address == nil &&
		u.State == nil && u.City == nil && u.Neighborhood == nil &&
		u.ImageURL == nil && u.PasswordHash == nil
}
