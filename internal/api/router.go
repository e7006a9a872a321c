package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/KaruG1999/roster/internal/metrics"
	"github.com/KaruG1999/roster/internal/registry"
	"github.com/KaruG1999/roster/internal/upstream"
	"github.com/KaruG1999/roster/internal/verify"
)

// RouterConfig carries the dependencies and limits for the API router
type RouterConfig struct {
	// Store is the user registry
	Store *registry.Store
	// Upstream is the provider client; nil when no credential is configured
	Upstream *upstream.Client
	// Controller runs per-user validations
	Controller *verify.Controller
	// MaxBodySize caps request body sizes; 0 disables the cap
	MaxBodySize int64
	// ValidateRPS rate-limits the validate-email endpoint; 0 disables it
	ValidateRPS float64
	// RequestTimeout bounds request handling; 0 uses a 60s default
	RequestTimeout time.Duration
}

// NewRouter creates a new chi router with all endpoints and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	h := &Handler{
		store:       cfg.Store,
		upstream:    cfg.Upstream,
		controller:  cfg.Controller,
		validate:    validator.New(),
		maxBodySize: cfg.MaxBodySize,
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(metrics.Middleware())

	// CORS for browser clients
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Get("/users", h.handleListUsers)
		r.Post("/users", h.handleCreateUser)
		r.Get("/users/{id}", h.handleGetUser)
		r.Delete("/users/{id}", h.handleDeleteUser)

		r.Post("/users/{id}/validate", h.handleValidateUser)
		r.Post("/users/validate", h.handleValidateAll)

		r.Get("/preference", h.handleGetPreference)
		r.Put("/preference", h.handleSetPreference)

		r.With(rateLimit(cfg.ValidateRPS)).Post("/validate-email", h.handleValidateEmail)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit sheds load on the proxy route with a token bucket; rps <= 0
// disables limiting.
func rateLimit(rps float64) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(rps), int(rps)+1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, ValidateEmailResponse{
					Razon: ErrRateLimited.Error(),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
