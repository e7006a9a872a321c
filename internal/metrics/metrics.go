// Package metrics exposes prometheus instrumentation for the HTTP surface
// and the email validation pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KaruG1999/roster/internal/types"
)

var (
	totalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "code"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	validationVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_validation_verdicts_total",
			Help: "Total email validation verdicts by status",
		},
		[]string{"status"},
	)

	validationFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_validation_fallbacks_total",
			Help: "Total validations resolved by the heuristic fallback",
		},
	)
)

func init() {
	prometheus.MustRegister(totalRequests)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(validationVerdicts)
	prometheus.MustRegister(validationFallbacks)
}

// ObserveVerdict records a completed validation outcome
func ObserveVerdict(status types.VerdictStatus) {
	validationVerdicts.WithLabelValues(string(status)).Inc()
}

// ObserveFallback records a validation resolved by the heuristic fallback
func ObserveFallback() {
	validationFallbacks.Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments requests with count and duration metrics, labeled
// by the matched chi route pattern rather than the raw path.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			endpoint := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				endpoint = rctx.RoutePattern()
			}

			totalRequests.WithLabelValues(r.Method, endpoint, strconv.Itoa(sw.status)).Inc()
			requestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		})
	}
}
