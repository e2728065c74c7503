// Package middleware holds the HTTP middleware shared by all routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/komi0929/pen-sub000/pkg/api"
	"github.com/komi0929/pen-sub000/pkg/auth"
	"github.com/komi0929/pen-sub000/pkg/observability"
)

// Logger logs one line per request with latency and status.
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", chimiddleware.GetReqID(r.Context())))
		})
	}
}

// Metrics records request counts and latency per route pattern.
func Metrics(collector *observability.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			collector.ObserveHTTPRequest(r.Method, route, ww.Status(), time.Since(start))
		})
	}
}

// Authenticate rejects requests without a valid bearer token and stores the
// user ID on the context for handlers.
func Authenticate(tokens *auth.Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.ValidateToken(r.Header.Get("Authorization"))
			if err != nil {
				api.Error(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
		})
	}
}
