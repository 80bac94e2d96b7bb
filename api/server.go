/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the browser frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Vacation routes
		r.Route("/vacations", func(r chi.Router) {
			r.Get("/", h.ListVacations)
			r.Post("/", h.CreateVacation)
			r.Delete("/filter", h.ClearVacationFilter)
			r.Get("/pending", h.ListPendingVacations)
			r.Get("/approved", h.ListApprovedVacations)
			r.Get("/balance", h.GetVacationBalance)
			r.Get("/summaries", h.GetEmployeeSummaries)
			r.Get("/calendar", h.GetVacationCalendar)
			r.Get("/availability", h.GetTeamAvailability)
			r.Get("/{id}", h.GetVacation)
			r.Post("/{id}/cancel", h.CancelVacation)
			r.Post("/{id}/approve", h.ApproveVacation)
			r.Post("/{id}/reject", h.RejectVacation)
			r.Get("/{id}/conflicts", h.GetVacationConflicts)
			r.Get("/{id}/validate", h.ValidateVacation)
		})

		// Time-correction routes
		r.Route("/corrections", func(r chi.Router) {
			r.Get("/", h.ListCorrections)
			r.Post("/", h.CreateCorrection)
			r.Get("/{id}", h.GetCorrection)
			r.Put("/{id}", h.UpdateCorrection)
			r.Delete("/{id}", h.CancelCorrection)
			r.Post("/{id}/approve", h.ApproveCorrection)
			r.Post("/{id}/reject", h.RejectCorrection)
		})

		// Work-session routes
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListSessions)
			r.Post("/clock-in", h.ClockIn)
			r.Post("/clock-out", h.ClockOut)
			r.Post("/breaks/start", h.StartBreak)
			r.Post("/breaks/end", h.EndBreak)
		})
	})

	return r
}
