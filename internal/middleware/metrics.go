package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records request counts and latencies per route pattern. Using the
// matched pattern instead of the raw path keeps label cardinality bounded.
// The mux is consulted for the pattern because it is not visible on the
// request outside the matched handler.
func Metrics(reg prometheus.Registerer, mux *http.ServeMux) func(http.Handler) http.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	reg.MustRegister(requests, duration)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			_, route := mux.Handler(r)
			if route == "" {
				route = "unmatched"
			}

			start := time.Now()
			next.ServeHTTP(rw, r)

			requests.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
