package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Middleware logs every request and feeds the HTTP counters. Requests slower
// than slow are counted and logged as warnings.
func Middleware(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", elapsed,
				"requestId", middleware.GetReqID(r.Context()),
			}

			switch {
			case status >= 500:
				ErrorHttp5xx()
				Logger.Error("request failed", args...)
			case status >= 400:
				WarnHttp4xx(status)
				Debug("request rejected", args...)
			default:
				Debug("request", args...)
			}

			if slow > 0 && elapsed > slow {
				WarnSlowRequest()
				if shouldSample() {
					Logger.Warn("slow request", args...)
				}
			}
		})
	}
}
