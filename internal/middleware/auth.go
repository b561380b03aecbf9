// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware

import (
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/adotafacil/internal/apperr"
	"codeberg.org/oliverandrich/adotafacil/internal/auth"
	authsvc "codeberg.org/oliverandrich/adotafacil/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(raw string) (*authsvc.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user in the request context.
func RequireAuth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return apperr.New(apperr.KindUnauthorized, "error_unauthorized")
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				slog.Debug("token_rejected", "path", c.Path(), "error", err)
				return apperr.Wrap(apperr.KindUnauthorized, "error_unauthorized", err)
			}
			setUser(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth stores the token's user in the request context when a valid
// bearer token is present. Anonymous and invalid tokens pass through.
func OptionalAuth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := tokens.Parse(raw); err == nil {
					setUser(c, claims)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setUser(c echo.Context, claims *authsvc.Claims) {
	ctx := auth.SetUser(c.Request().Context(), &auth.User{ID: claims.UserID, Email: claims.Email})
	c.SetRequest(c.Request().WithContext(ctx))
}
