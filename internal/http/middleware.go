package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	applog "brewboard/internal/log"
)

type contextKey string

// RequestIDKey carries the per-request trace ID.
const RequestIDKey contextKey = "request_id"

// RequestID returns the trace ID stored on the context, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with a UUID and logs start/completion
// with structured fields.
func requestLogger(logger *applog.Logger) func(http.Handler) http.Handler {
	log := logger.WithComponent(applog.ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

			log.DebugContext(ctx, "Request started",
				applog.FieldRequestID, requestID,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldQuery, r.URL.RawQuery)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			log.InfoContext(ctx, "Request completed",
				applog.FieldRequestID, requestID,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldStatusCode, sw.status,
				applog.FieldDuration, time.Since(start).Milliseconds())
		})
	}
}
