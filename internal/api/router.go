package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/honeynil/rotrade/internal/handler"
	"github.com/honeynil/rotrade/internal/infrastructure/auth"
	"github.com/honeynil/rotrade/internal/infrastructure/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Handler      *handler.Handler
	Tokens       auth.TokenValidator
	AuthRequired bool

	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// Health backs GET /healthz. Nil means the route is not served.
	Health func(ctx context.Context) error

	// ServeMetrics exposes GET /metrics on this router.
	ServeMetrics bool
}

// NewRouter builds the full middleware chain:
// CORS -> request id -> rate limit -> metrics -> auth -> routes.
func NewRouter(cfg RouterConfig) http.Handler {
	observability.RegisterMetrics()

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if cfg.Health != nil {
		r.HandleFunc("/healthz", healthHandler(cfg.Health)).Methods(http.MethodGet)
	}
	if cfg.ServeMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
	cfg.Handler.RegisterRoutes(r)

	var h http.Handler = r
	if cfg.Tokens != nil {
		h = auth.Middleware(cfg.Tokens, cfg.AuthRequired, handler.PublicActions...)(h)
	}
	h = metricsMiddleware(cfg.Handler.Actions())(h)
	if cfg.RateLimitRPS > 0 {
		h = newIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).middleware(h)
	}
	h = requestIDMiddleware(h)
	return corsMiddleware(h)
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			observability.FromContext(r.Context()).Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
