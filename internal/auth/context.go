// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/ctxkeys"
)

// User is the caller identified by a bearer token.
type User struct {
	ID    int64
	Email string
}

// SetUser stores the authenticated user in the context.
func SetUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxkeys.User{}, user)
}

// GetUser returns the authenticated user from the context, or nil if not authenticated.
func GetUser(ctx context.Context) *User {
	if user, ok := ctx.Value(ctxkeys.User{}).(*User); ok {
		return user
	}
	return nil
}

// UserID returns the id of the authenticated user, or nil for anonymous
// requests.
func UserID(ctx context.Context) *int64 {
	if user := GetUser(ctx); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// IsSelf reports whether the authenticated user is the given account.
func IsSelf(ctx context.Context, id int64) bool {
	user := GetUser(ctx)
	return user != nil && user.ID == id
}

// HasEmail reports whether the authenticated user's email matches email,
// ignoring case and surrounding space.
func HasEmail(ctx context.Context, email string) bool {
	user := GetUser(ctx)
	return user != nil && strings.EqualFold(user.Email, strings.TrimSpace(email))
}
