/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/validate          Dry-run candidate evaluation
  /api/import/*          Batch preview and commit
  /api/partners/*        Partner directory and income reports
  /api/subactivities/*   Sub-activities and quota reports
  /api/ratecards         Rate card management
  /api/limits            Yearly ceiling management
  /api/tasks/*           Tasks and member assignment
  /api/scenarios/*       Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Validation
		r.Post("/validate", h.Validate)

		// Batch import
		r.Route("/import", func(r chi.Router) {
			r.Post("/preview", h.PreviewImport)
			r.Post("/commit", h.CommitImport)
		})

		// Partner routes
		r.Route("/partners", func(r chi.Router) {
			r.Get("/", h.ListPartners)
			r.Post("/", h.CreatePartner)
			r.Get("/{id}", h.GetPartner)
			r.Get("/{id}/income", h.GetPartnerIncome)
		})

		// Sub-activity routes
		r.Route("/subactivities", func(r chi.Router) {
			r.Get("/", h.ListSubActivities)
			r.Post("/", h.CreateSubActivity)
			r.Get("/{id}/quota", h.GetSubActivityQuota)
		})

		// Rate card routes
		r.Route("/ratecards", func(r chi.Router) {
			r.Get("/", h.ListRateCards)
			r.Post("/", h.CreateRateCard)
		})

		// Limit rule routes
		r.Route("/limits", func(r chi.Router) {
			r.Get("/", h.ListLimitRules)
			r.Post("/", h.CreateLimitRule)
		})

		// Task routes
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Get("/{id}/members", h.ListTaskMembers)
			r.Post("/{id}/members", h.AddTaskMember)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
