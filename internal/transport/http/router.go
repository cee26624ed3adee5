package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salespulse/internal/config"
	"salespulse/internal/middleware"
	"salespulse/internal/services"
)

// NewRouter builds the service router with the full middleware chain.
func NewRouter(service *services.AnalyzerService, cfg *config.Config, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)

	if cfg.Security.EnableCORS {
		r.Use(middleware.CORS(cfg.Security.AllowedOrigins))
	}
	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	analyzer := NewAnalyzerHandler(service, logger, cfg.Server.MaxUploadBytes)
	r.Mount("/api", analyzer.Routes())

	r.Get("/healthz", healthz(service))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// healthz reports liveness plus whether a forecast model is loaded.
func healthz(service *services.AnalyzerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]interface{}{
			"status":        "ok",
			"model_trained": service.ModelTrained(r.Context()),
		})
	}
}
