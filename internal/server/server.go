// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/config"
	"codeberg.org/oliverandrich/adotafacil/internal/database"
	"codeberg.org/oliverandrich/adotafacil/internal/handlers"
	"codeberg.org/oliverandrich/adotafacil/internal/i18n"
	"codeberg.org/oliverandrich/adotafacil/internal/middleware"
	"codeberg.org/oliverandrich/adotafacil/internal/repository"
	"codeberg.org/oliverandrich/adotafacil/internal/services/animals"
	authsvc "codeberg.org/oliverandrich/adotafacil/internal/services/auth"
	"codeberg.org/oliverandrich/adotafacil/internal/services/email"
	"codeberg.org/oliverandrich/adotafacil/internal/services/recovery"
	"codeberg.org/oliverandrich/adotafacil/internal/services/storage"
	"codeberg.org/oliverandrich/adotafacil/internal/services/users"
	"codeberg.org/oliverandrich/adotafacil/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		secret, err := authsvc.RandomSecret()
		if err != nil {
			return fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		slog.Warn("jwt-secret not set, tokens will not survive a restart")
	}

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"database", cfg.Database.Driver,
		"mail_provider", cfg.Mail.Provider,
	)

	// Database and migrations
	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// External services
	store, err := storage.NewAzureStore(cfg.Blob)
	if err != nil {
		return fmt.Errorf("failed to set up blob storage: %w", err)
	}
	mailer, err := email.NewFromConfig(&cfg.Mail, cfg.Recovery.CodeTTL)
	if err != nil {
		return fmt.Errorf("failed to set up mail: %w", err)
	}

	repo := repository.New(db)
	tokens := authsvc.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	svc := newServices(repo, tokens, store, mailer, cfg.Recovery.CodeTTL)

	// Background jobs
	sweeper, err := startSweeper(cfg.Recovery.SweepSchedule, svc.recovery)
	if err != nil {
		return err
	}
	defer stopSweeper(sweeper)

	e := newEcho(cfg, svc)
	return startWithGracefulShutdown(ctx, e, cfg)
}

// services bundles the business logic the routes depend on.
type services struct {
	repo     *repository.Repository
	images   handlers.ImageStore
	tokens   *authsvc.Tokens
	auth     *authsvc.Service
	recovery *recovery.Service
	users    *users.Service
	animals  *animals.Service
}

func newServices(repo *repository.Repository, tokens *authsvc.Tokens, images handlers.ImageStore, mailer recovery.Mailer, codeTTL time.Duration) *services {
	return &services{
		repo:     repo,
		images:   images,
		tokens:   tokens,
		auth:     authsvc.NewService(repo, tokens),
		recovery: recovery.NewService(repo, mailer, codeTTL),
		users:    users.NewService(repo, images),
		animals:  animals.NewService(repo, images),
	}
}

// newEcho builds the HTTP stack.
func newEcho(cfg *config.Config, svc *services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Validator = validation.Echo{}

	setupMiddleware(e, cfg)
	setupRoutes(e, svc)
	return e
}

func setupRoutes(e *echo.Echo, svc *services) {
	h := handlers.New(svc.repo, svc.images)
	authH := handlers.NewAuth(svc.auth)
	recoveryH := handlers.NewRecovery(svc.recovery)
	usersH := handlers.NewUsers(svc.users)
	animalsH := handlers.NewAnimals(svc.animals)

	requireAuth := middleware.RequireAuth(svc.tokens)
	optionalAuth := middleware.OptionalAuth(svc.tokens)

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/upload", h.Upload, requireAuth)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authH.Register)
	authGroup.POST("/login", authH.Login)

	recoveryGroup := api.Group("/recuperar-senha")
	recoveryGroup.POST("/enviar-codigo", recoveryH.SendCode)
	recoveryGroup.POST("/confirmar-codigo", recoveryH.ConfirmCode)
	recoveryGroup.POST("/alterar-senha", recoveryH.ChangePassword, requireAuth)

	usersGroup := api.Group("/usuarios")
	usersGroup.GET("/:id", usersH.Get)
	usersGroup.PUT("/:id", usersH.Update, requireAuth)

	locations := api.Group("/localidades")
	locations.GET("/estados", h.States)
	locations.GET("/cidades/:uf", h.Cities)

	animalsGroup := api.Group("/animais")
	animalsGroup.GET("", animalsH.Search, optionalAuth)
	animalsGroup.POST("", animalsH.Create, requireAuth)
	animalsGroup.GET("/usuario/:idUsuario", animalsH.ListByOwner)
	animalsGroup.GET("/favoritos/:idUsuario", animalsH.Favorites, requireAuth)
	animalsGroup.GET("/:idAnimal", animalsH.Get, optionalAuth)
	animalsGroup.PUT("/:idAnimal", animalsH.Update, requireAuth)
	animalsGroup.DELETE("/:idAnimal", animalsH.Delete, requireAuth)
	animalsGroup.POST("/:idAnimal/favoritar", animalsH.ToggleFavorite, requireAuth)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	// Channel for server errors
	errChan := make(chan error, 1)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL, "tls", cfg.Server.UseTLS())
		var err error
		if cfg.Server.UseTLS() {
			err = e.StartTLS(addr, cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal, cancellation or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("shutting down server", "reason", ctx.Err())
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
