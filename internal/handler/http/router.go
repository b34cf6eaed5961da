package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhythmiaheartcare/rhythmia-web/internal/service"
	"github.com/rhythmiaheartcare/rhythmia-web/pkg/health"
	"github.com/rhythmiaheartcare/rhythmia-web/pkg/middleware"
)

// serviceName labels HTTP metrics emitted by this service.
const serviceName = "reviews"

// RouterConfig holds the router-level settings.
type RouterConfig struct {
	// AllowedOrigins for CORS; the marketing site is a browser client on a
	// different origin than this API.
	AllowedOrigins []string

	// Environment gates CORS wildcard behavior.
	Environment string

	// ListCacheSeconds is the browser Cache-Control max-age for the public
	// review list. Zero disables the header.
	ListCacheSeconds int
}

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	reviewHandler := NewReviewHandler(reviewService, logger)

	// Review API endpoints
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		if cfg.ListCacheSeconds > 0 {
			r.With(middleware.CacheControl(cfg.ListCacheSeconds)).Get("/", reviewHandler.ListReviews)
		} else {
			r.Get("/", reviewHandler.ListReviews)
		}
		r.Post("/", reviewHandler.SubmitReview)
	})

	// Approval link endpoint. The path and query shape are fixed: this is the
	// URL embedded in the moderation email.
	r.Get("/approve-review", reviewHandler.ApproveReview)

	return r
}
