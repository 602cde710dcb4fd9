package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"musiccatalog/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLogging tags each request with an id and logs its start and outcome.
func RequestLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			r = r.WithContext(logging.WithRequestID(r.Context(), requestID))
			logger := logging.WithContext(r.Context())

			rw := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("HTTP request started")

			next.ServeHTTP(rw, r)

			event := logger.Info()
			switch {
			case rw.statusCode >= 500:
				event = logger.Error()
			case rw.statusCode >= 400:
				event = logger.Warn()
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status_code", rw.statusCode).
				Dur("duration_ms", time.Since(start)).
				Msg("HTTP request completed")
		})
	}
}

// Recovery turns a handler panic into a 500 JSON response.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logging.WithContext(r.Context()).Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Interface("panic", err).
						Msg("recovered from panic")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares so the first one listed runs outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
