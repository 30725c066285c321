/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router and middleware stack for the interactive trigger:
  a thin HTTP surface over the batch engine so the operator's panel can start
  a run and inspect history without shelling out.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the panel frontend

ROUTES:
  POST /api/reconcile   Execute one reconciliation run
  GET  /api/runs        Run history, newest first
  GET  /api/orders      Ledger rows in canonical form
  GET  /api/health      Liveness probe

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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/reconcile", h.TriggerReconcile)
		r.Get("/runs", h.ListRuns)
		r.Get("/orders", h.ListOrders)
		r.Get("/health", h.Health)
	})

	return r
}
