package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashvicrafts/storefront-api/internal/auth"
)

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(requestIDKey).(string)
	})

	recorder := httptest.NewRecorder()
	RequestID(next).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-Id"))
}

func TestRequestIDKeepsCallerProvidedID(t *testing.T) {
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	recorder := httptest.NewRecorder()
	RequestID(next).ServeHTTP(recorder, req)

	assert.Equal(t, "caller-id", recorder.Header().Get("X-Request-Id"))
}

func TestAuthenticateRejectsMissingAndMalformedHeaders(t *testing.T) {
	authenticator := auth.NewJWTAuthenticator("storefront-api", "test-secret")
	next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run without credentials")
	})
	middleware := Authenticate(&authenticator)(next)

	for _, header := range []string{"", "token-without-scheme", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		middleware.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	}
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	authenticator := auth.NewJWTAuthenticator("storefront-api", "test-secret")
	now := time.Now()
	token, err := authenticator.GenerateToken(&auth.Claims{
		Email: "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront-api",
			Subject:   "user-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	var claims *auth.Claims
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		claims, _ = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	Authenticate(&authenticator)(next).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "asha@example.com", claims.Email)
}
