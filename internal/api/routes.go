package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heeguso/manse-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Public:
//
//	GET /health
//	GET /api/v1/chart?birth=YYYY-MM-DDTHH:MM&sex=M|F
//	GET /api/v1/yearcycle?start=YYYY&count=N[&daymaster=甲]
//	GET /api/v1/terms/{year}
//
// Admin (API key):
//
//	POST /api/v1/admin/terms/{year}
func SetupRoutes(handlers *Handlers, cfg *config.Config, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggingMiddleware(log),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/chart", handlers.GetChart)
		r.Get("/yearcycle", handlers.GetYearCycle)
		r.Get("/terms/{year}", handlers.GetTerms)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnlyMiddleware(cfg, log))
			r.Post("/admin/terms/{year}", handlers.GenerateTerms)
		})
	})

	return r
}
