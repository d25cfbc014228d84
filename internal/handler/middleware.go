package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kashvicrafts/storefront-api/internal/auth"
)

type contextKey struct{ name string }

var (
	requestIDKey  = &contextKey{"request_id"}
	userClaimsKey = &contextKey{"user_claims"}
)

// RequestID assigns a correlation id to every request, echoed in the
// X-Request-Id response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			event := logger.Info()
			if recorder.status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			if id, ok := r.Context().Value(requestIDKey).(string); ok {
				event = event.Str("request_id", id)
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Authenticate rejects requests without a valid bearer token and stores the
// parsed claims on the context.
func Authenticate(authenticator *auth.JWTAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing authorization header"})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid authorization header format"})
				return
			}

			claims := &auth.Claims{}
			if _, err := authenticator.ValidateTokenWithClaims(parts[1], claims); err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userClaimsKey, claims)))
		})
	}
}

// ClaimsFromContext returns the authenticated caller's claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userClaimsKey).(*auth.Claims)
	return claims, ok
}
