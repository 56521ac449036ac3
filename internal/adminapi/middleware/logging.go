package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/metrics"
)

// RequestLogger logs each request at Info level and records its duration
// in the HTTP metrics, wrapping chi's status-capturing response writer.
func RequestLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			duration := time.Since(start).Seconds()
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			statusStr := http.StatusText(status)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("request handled")

			metrics.RecordHTTPRequest(r.Method, r.URL.Path, statusStr, duration)
		})
	}
}
