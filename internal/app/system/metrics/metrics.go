// Package metrics registers the Prometheus collectors for the admin panel
// and exposes the HTTP middleware that feeds them.
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
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_http_requests_total",
			Help: "HTTP requests served, by route pattern and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adminpanel_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_mutations_total",
			Help: "Collection mutations, by domain, operation and outcome.",
		},
		[]string{"domain", "op", "outcome"},
	)

	noticesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_notices_total",
			Help: "User-facing notices emitted, by severity.",
		},
		[]string{"severity"},
	)

	activeDesks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "adminpanel_active_desks",
		Help: "Signed-in browser desks currently holding page state.",
	})

	remoteLoadsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adminpanel_remote_loads_dropped_total",
			Help: "Remote list results discarded because a newer load had been applied.",
		},
		[]string{"domain"},
	)
)

// Mutation outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeRolledBack = "rolled_back"
	OutcomeRejected   = "rejected"
)

// RecordMutation counts one collection mutation.
func RecordMutation(domain, op, outcome string) {
	mutationsTotal.WithLabelValues(domain, op, outcome).Inc()
}

// RecordNotice counts one emitted notice.
func RecordNotice(severity string) {
	noticesTotal.WithLabelValues(severity).Inc()
}

// SetActiveDesks reports the current desk count.
func SetActiveDesks(n int) {
	activeDesks.Set(float64(n))
}

// RecordDroppedLoad counts a stale remote load.
func RecordDroppedLoad(domain string) {
	remoteLoadsDropped.WithLabelValues(domain).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency. The route label is the
// chi route pattern, so path parameters never become label values.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
