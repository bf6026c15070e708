package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcgate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arcgate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "arcgate",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Session metrics
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcgate",
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Total number of logins by outcome (created, existing, failed)",
		},
		[]string{"outcome"},
	)

	// Billing metrics
	checkoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcgate",
			Subsystem: "billing",
			Name:      "checkouts_total",
			Help:      "Total number of checkout session requests by outcome",
		},
		[]string{"outcome"},
	)

	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcgate",
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Total number of billing webhook events by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	// Completion metrics
	completionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcgate",
			Subsystem: "completion",
			Name:      "requests_total",
			Help:      "Total number of completion requests by tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arcgate",
			Subsystem: "completion",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of upstream completion calls in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tier"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Route pattern keeps label cardinality bounded
		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLogin records a login attempt
func RecordLogin(outcome string) {
	loginsTotal.WithLabelValues(outcome).Inc()
}

// RecordCheckout records a checkout session request
func RecordCheckout(outcome string) {
	checkoutsTotal.WithLabelValues(outcome).Inc()
}

// RecordWebhookEvent records a processed billing webhook event
func RecordWebhookEvent(eventType, outcome string) {
	webhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordCompletion records an upstream completion call
func RecordCompletion(tier, outcome string, duration time.Duration) {
	completionsTotal.WithLabelValues(tier, outcome).Inc()
	completionDuration.WithLabelValues(tier).Observe(duration.Seconds())
}
