// Package telemetry exposes the service's prometheus metrics and the HTTP
// middleware that records them. Scraped at /metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoadsTotal counts thread loads by outcome (ok, error, noop).
	LoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postview_loads_total",
		Help: "Comment thread loads by outcome.",
	}, []string{"outcome"})

	// ActionsTotal counts vote/edit/delete submissions by action and outcome.
	ActionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postview_actions_total",
		Help: "Comment mutations by action and outcome.",
	}, []string{"action", "outcome"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postview_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "code"})
)

func init() {
	prometheus.MustRegister(LoadsTotal, ActionsTotal, requestDuration)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware times every request and records it in the latency histogram.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		requestDuration.WithLabelValues(r.Method, strconv.Itoa(rec.code)).
			Observe(time.Since(start).Seconds())
	})
}
