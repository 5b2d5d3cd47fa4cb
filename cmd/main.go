// @title Taskvault API
// @version 1.0
// @description Personal task tracking: accounts, bearer tokens and owner-scoped task CRUD.

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/taskvault/taskvault-api/docs" // This is required for swagger
	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/database"
	"github.com/taskvault/taskvault-api/internal/handlers"
	"github.com/taskvault/taskvault-api/internal/middleware"
	"github.com/taskvault/taskvault-api/internal/routes"
	"github.com/taskvault/taskvault-api/internal/security"
	"github.com/taskvault/taskvault-api/internal/services"
	"github.com/taskvault/taskvault-api/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskvault: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		logger.Info("database schema ensured")
	}

	// --- Stores and services ---
	users := store.NewUserStore(pool)
	tasks := store.NewTaskStore(pool)
	tokens := middleware.NewTokenService(&cfg.JWT)
	hasher := security.NewHasher(cfg.Password.BcryptCost)

	authService := services.NewAuthService(users, hasher, tokens, logger)
	guard := services.NewGuard(tokens, users, tasks)
	taskService := services.NewTaskService(tasks, guard)

	// --- HTTP Handlers ---
	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, logger),
		Tasks:  handlers.NewTasksHandler(taskService, logger),
		Health: handlers.NewHealthHandler(pool),
	}
	if cfg.IsGoogleOAuthConfigured() {
		h.Google = handlers.NewGoogleAuthHandler(authService, &cfg.GoogleOAuth, logger)
	} else {
		logger.Info("google sign-in disabled: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set")
	}

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, h, guard)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.Wrap(mux, &cfg.CORS, logger),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- HTTP Server + Graceful Shutdown ---
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
