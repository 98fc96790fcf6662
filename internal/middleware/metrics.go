package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/recipebox/recipe-api/internal/metrics"
)

var registerLatencyOnce sync.Once

var httpLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_requests_latency_seconds",
		Help:    "Latency of HTTP requests.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// wroteStatus remembers the response code; handlers that never call
// WriteHeader implicitly send 200.
type wroteStatus struct {
	http.ResponseWriter
	code int
}

func (w *wroteStatus) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// HTTPMetrics records request counts and latency labeled by chi route
// pattern, so /recipes/{id} stays one series regardless of id.
func HTTPMetrics(next http.Handler) http.Handler {
	registerLatencyOnce.Do(func() { prometheus.MustRegister(httpLatency) })

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ws := &wroteStatus{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(ws, r)
		observe(r, ws.code, time.Since(start))
	})
}

func observe(r *http.Request, code int, d time.Duration) {
	route := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if patt := rc.RoutePattern(); patt != "" {
			route = patt
		}
	}
	status := strconv.Itoa(code)
	httpLatency.WithLabelValues(r.Method, route, status).Observe(d.Seconds())
	metrics.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
}
