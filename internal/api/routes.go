package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RegisterRoutes sets up all API endpoints and middleware. Routes that
// read public data (team/event lookups, the athlete directory, seeding)
// are open; everything acting as a specific user sits behind the auth
// middleware.
func (s *Server) RegisterRoutes(r *chi.Mux) {
	r.Use(middleware.Logger)    // Logs incoming requests
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error

	r.Use(cors.Handler(cors.Options{
		// The original deployment serves arbitrary frontends.
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)

	// Auth routes
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Get("/auth/google/login", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	// Public data routes
	r.Get("/athletes", s.handleListAthletes)
	r.Get("/teams/{id}", s.handleGetTeam)
	r.Get("/events", s.handleListEvents)
	r.Get("/events/{id}", s.handleGetEvent)
	r.Post("/seed", s.handleSeed)

	// --- Authenticated routes ---
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/me", s.handleMe)

		// Athlete profiles
		r.Post("/athletes/me", s.handleUpsertMyProfile)
		r.Post("/athletes/me/performance", s.handleImportPerformance)
		r.Get("/athletes/{id}", s.handleGetAthlete)

		// Teams
		r.Post("/teams", s.handleCreateTeam)
		r.Post("/teams/{id}/add", s.handleAddToRoster)

		// Events & registration
		r.Post("/events", s.handleCreateEvent)
		r.Post("/events/{id}/register", s.handleRegisterForEvent)

		// Dashboards & notifications
		r.Get("/dashboard/coach", s.handleCoachDashboard)
		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/{id}/read", s.handleMarkNotificationRead)

		// Admin
		r.Get("/admin/overview", s.handleAdminOverview)
		r.Post("/admin/moderate", s.handleModerate)
	})
}
