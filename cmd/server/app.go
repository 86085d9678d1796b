package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dosewave/dosewave-api/internal/config"
	"github.com/dosewave/dosewave-api/internal/domain/pk"
	"github.com/dosewave/dosewave-api/internal/platform/postgres"
	"github.com/dosewave/dosewave-api/internal/service"
	"github.com/dosewave/dosewave-api/internal/service/auth"
	"github.com/dosewave/dosewave-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	regimenStore store.RegimenStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	simulator        pk.Service
	regimenService   service.RegimenService
	graphService     service.GraphService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	app.userStore = postgres.NewPostgresUserStore(db, hasher, logger)
	app.regimenStore = postgres.NewPostgresRegimenStore(db, logger)

	app.simulator = pk.NewServiceWithParams(pk.NewParams(pk.ParamsConfig{
		SampleIntervalMinutes: cfg.Simulation.SampleIntervalMinutes,
		ScheduleMarginDays:    cfg.Simulation.ScheduleMarginDays,
	}))

	app.regimenService, err = service.NewRegimenService(app.regimenStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create regimen service: %w", err)
	}

	app.graphService, err = service.NewGraphService(app.regimenStore, app.simulator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
