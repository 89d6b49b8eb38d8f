package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes. Authentication lives in front of
// this service (reverse proxy / identity-aware gateway), so no auth
// middleware here.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth, no API prefix)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/dashboard/range", h.DashboardRange)
		r.Get("/campaigns/{name}/responders", h.CampaignResponders)
		r.Get("/campaigns/{name}/recommendation", h.CampaignRecommendation)
		r.Get("/conversations/{ref}", h.Conversation)
		r.Post("/cache/invalidate", h.InvalidateCache)
	})

	return r
}
