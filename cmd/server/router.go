package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dosewave/dosewave-api/internal/api"
	apiMiddleware "github.com/dosewave/dosewave-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	regimenHandler := api.NewRegimenHandler(app.regimenService)
	graphHandler := api.NewGraphHandler(app.graphService, app.config.Simulation.DefaultWindowHours)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Regimen endpoints
			r.Post("/regimens", regimenHandler.Create)
			r.Get("/regimens", regimenHandler.List)
			r.Get("/regimens/{id}", regimenHandler.Get)
			r.Put("/regimens/{id}", regimenHandler.Update)
			r.Delete("/regimens/{id}", regimenHandler.Delete)

			// Graph endpoints
			r.Get("/graph", graphHandler.Get)
			r.Get("/graph/png", graphHandler.GetPNG)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
