// internal/middleware/logging.go
//
// Access log middleware.  One INFO line per request with method, path,
// status, and duration.  Requests under /metrics and /healthz log at
// DEBUG so scrapers do not flood the file.

package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog returns middleware that logs through log.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logf := log.Infow
			if r.URL.Path == "/metrics" || strings.HasPrefix(r.URL.Path, "/healthz") {
				logf = log.Debugw
			}
			logf("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"dur", time.Since(start),
			)
		})
	}
}
