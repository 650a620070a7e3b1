// Package middleware contains HTTP middleware for the controller API.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"gitapp/internal/logger"
)

// RequestID attaches a correlation ID to every request. An incoming
// X-Request-Id is honored, otherwise a fresh one is generated. The ID is
// echoed on the response and stored in the context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-Id", id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
