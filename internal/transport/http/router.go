// Package httptransport assembles the HTTP surface: public auth and health
// endpoints, the intake catalog, and the token-protected complaint API.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"careline/internal/platform/metrics"
	"careline/internal/platform/middleware"
	"careline/pkg/platform/httputil"
)

// Registrar is anything that mounts routes on a chi router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of one backing dependency.
type HealthChecker func() error

// Config carries everything the router needs, already constructed.
type Config struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.TokenValidator

	// Revocation may be nil when Redis is not configured.
	Revocation middleware.RevocationChecker

	// Auth mounts the public login/logout endpoints.
	Auth Registrar
	// Catalog and Complaints mount under the authenticated /api prefix.
	Catalog    Registrar
	Complaints Registrar

	// Health checks run on /healthz, keyed by dependency name.
	Health map[string]HealthChecker
}

// New builds the full router with the shared middleware chain applied.
func New(cfg Config) http.Handler {
	logger := cfg.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Metadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(cfg.Metrics))

	r.Get("/healthz", healthHandler(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cfg.Auth.Register(r)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequireAuth(cfg.Validator, cfg.Revocation, logger))
		cfg.Catalog.Register(api)
		cfg.Complaints.Register(api)
	})

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = err.Error()
			} else {
				body[name] = "ok"
			}
		}
		httputil.WriteJSON(w, status, body)
	}
}
