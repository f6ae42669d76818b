package middleware

import (
	"net/http"
	"time"

	"github.com/mcoot/scoreboard/internal/metrics"
)

// Metrics records request counts and latencies. A nil manager records nothing.
func Metrics(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &ResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(r.Method, wrapped.status, time.Since(start))
		})
	}
}
