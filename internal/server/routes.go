package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, store Store, db *sql.DB) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Gotale API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handleRegister(store))
		r.Post("/auth/login", handleLogin(store))
		r.Group(func(r chi.Router) {
			r.Use(requireAuth(store))
			r.Post("/auth/logout", handleLogout(store))
			r.Get("/auth/me", handleMe())
		})

		// Locations are public to read, admin-only to write.
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", handleListLocations(store))
			r.Get("/{id}", handleGetLocation(store))
			r.Group(func(r chi.Router) {
				r.Use(requireAuth(store))
				r.Post("/", handleCreateLocation(store))
				r.Put("/{id}", handleUpdateLocation(store))
				r.Delete("/{id}", handleDeleteLocation(store))
			})
		})

		// Scenarios are public to read; creating requires a logged-in
		// author, deleting the author or an admin.
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", handleListScenarios(store))
			r.Get("/{id}", handleGetScenario(store))
			r.Group(func(r chi.Router) {
				r.Use(requireAuth(store))
				r.Post("/", handleCreateScenario(store))
				r.Delete("/{id}", handleDeleteScenario(store))
			})
		})

		// Games are private to their player (admins see everything).
		r.Route("/games", func(r chi.Router) {
			r.Use(requireAuth(store))
			r.Get("/", handleListGames(store))
			r.Post("/", handleCreateGame(store))
			r.Get("/{id}", handleGetGame(store))
			r.Delete("/{id}", handleDeleteGame(store))
			r.Get("/{id}/step", handleCurrentStep(store))
			r.Post("/{id}/step", handleDecision(store))
			r.Get("/{id}/history", handleGameHistory(store))
		})
	})
}
