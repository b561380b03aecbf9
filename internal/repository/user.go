// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
)

const userColumns = `id_usuario, nome, email, senha, telefone, cpf, cnpj, imagem_url,
	endereco, estado, cidade, bairro, id_situacao, data_cadastro`

// CreateUser inserts a new user and fills in its ID and registration time.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = now()
	if user.SituationID == 0 {
		user.SituationID = models.SituationAvailable
	}

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO usuarios (nome, email, senha, telefone, cpf, cnpj, imagem_url,
			endereco, estado, cidade, bairro, id_situacao, data_cadastro)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.Phone, user.CPF, user.CNPJ, user.ImageURL,
		user.Address, user.State, user.City, user.Neighborhood, user.SituationID, user.CreatedAt)
	if err != nil {
		return wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.q.GetContext(ctx, &user, `SELECT `+userColumns+` FROM usuarios WHERE id_usuario = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.q.GetContext(ctx, &user, `SELECT `+userColumns+` FROM usuarios WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UserExistsWithDocument reports whether an account matches the email and
// the given CPF or, when isCompany is set, CNPJ.
func (r *Repository) UserExistsWithDocument(ctx context.Context, email, document string, isCompany bool) (bool, error) {
	column := "cpf"
	if isCompany {
		column = "cnpj"
	}

	var count int64
	err := r.q.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM usuarios WHERE email = ? AND `+column+` = ?`, email, document)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EmailExists checks if an account with the given email exists.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.q.GetContext(ctx, &count, `SELECT COUNT(*) FROM usuarios WHERE email = ?`, email); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUser applies the non-nil fields of upd. It returns ErrNotFound when
// no user has the given ID.
func (r *Repository) UpdateUser(ctx context.Context, id int64, upd *models.UserUpdate) error {
	if upd.IsEmpty() {
		_, err := r.GetUserByID(ctx, id)
		return err
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	add("nome", upd.Name)
	add("email", upd.Email)
	add("telefone", upd.Phone)
	add("endereco", upd.Address)
	add("estado", upd.State)
	add("cidade", upd.City)
	add("bairro", upd.Neighborhood)
	add("imagem_url", upd.ImageURL)
	add("senha", upd.PasswordHash)
	args = append(args, id)

	res, err := r.q.ExecContext(ctx,
		`UPDATE usuarios SET `+strings.Join(sets, ", ")+` WHERE id_usuario = ?`, args...)
	if err != nil {
		return wrapError(err)
	}
	return requireAffected(res, func() error {
		_, err := r.GetUserByID(ctx, id)
		return err
	})
}

// UpdatePasswordByEmail replaces the password hash of the account with the
// given email. It returns ErrNotFound when no account matches.
func (r *Repository) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE usuarios SET senha = ? WHERE email = ?`, passwordHash, email)
	if err != nil {
		return wrapError(err)
	}
	return requireAffected(res, func() error {
		_, err := r.GetUserByEmail(ctx, email)
		return err
	})
}
