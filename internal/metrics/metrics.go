// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globalsite_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "globalsite_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	QuizSessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "globalsite_quiz_sessions_started_total",
			Help: "Total number of lifestyle quiz sessions started",
		},
	)

	// QuizSelections counts picks by result: accepted, busy or rejected.
	QuizSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globalsite_quiz_selections_total",
			Help: "Total number of lifestyle quiz picks by result",
		},
		[]string{"result"},
	)

	QuizCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globalsite_quiz_completed_total",
			Help: "Total number of completed lifestyle brackets by winning category",
		},
		[]string{"winner"},
	)

	GlobeSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "globalsite_globe_sessions_active",
			Help: "Number of open globe WebSocket sessions",
		},
	)

	ContentEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globalsite_content_events_published_total",
			Help: "Total number of content events published to subscribers",
		},
		[]string{"type"},
	)
)

// Middleware records request counts and latency keyed by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
