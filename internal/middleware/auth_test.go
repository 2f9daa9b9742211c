package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/recipeai/internal/config"
)

const (
	testSecret = "test-secret"
	testIssuer = "https://auth.recipeai.test"
)

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "user-123",
		"iss": testIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

// serve runs one request through the middleware and reports the status and the
// user ID seen by the wrapped handler.
func serve(cfg *config.Config, authHeader string) (int, string, string) {
	var seen string
	handler := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr.Code, seen, rr.Body.String()
}

func TestAuthMiddleware_AcceptsValidToken(t *testing.T) {
	cfg := &config.Config{AuthJWTSecret: testSecret, AuthJWTIssuer: testIssuer}

	code, userID, _ := serve(cfg, "Bearer "+signToken(t, jwt.SigningMethodHS256, testSecret, validClaims()))

	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, "user-123", userID)
}

func TestAuthMiddleware_RejectsHeader(t *testing.T) {
	cfg := &config.Config{AuthJWTSecret: testSecret}

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{name: "missing", header: "", wantBody: "Missing Authorization header"},
		{name: "bare scheme", header: "Bearer", wantBody: "Invalid Authorization header format"},
		{name: "empty token", header: "Bearer ", wantBody: "Invalid Authorization header format"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantBody: "Invalid Authorization header format"},
		{name: "garbage token", header: "Bearer not.a.jwt", wantBody: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, userID, body := serve(cfg, tt.header)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Empty(t, userID)
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestAuthMiddleware_RejectsClaims(t *testing.T) {
	cfg := &config.Config{AuthJWTSecret: testSecret, AuthJWTIssuer: testIssuer}

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{name: "expired", mutate: func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() }},
		{name: "no expiry", mutate: func(c jwt.MapClaims) { delete(c, "exp") }},
		{name: "not yet valid", mutate: func(c jwt.MapClaims) { c["nbf"] = time.Now().Add(time.Hour).Unix() }},
		{name: "other issuer", mutate: func(c jwt.MapClaims) { c["iss"] = "https://elsewhere.test" }},
		{name: "no issuer", mutate: func(c jwt.MapClaims) { delete(c, "iss") }},
		{name: "no subject", mutate: func(c jwt.MapClaims) { delete(c, "sub") }},
		{name: "empty subject", mutate: func(c jwt.MapClaims) { c["sub"] = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)

			code, _, _ := serve(cfg, "Bearer "+signToken(t, jwt.SigningMethodHS256, testSecret, claims))
			assert.Equal(t, http.StatusUnauthorized, code)
		})
	}
}

func TestAuthMiddleware_RejectsSigning(t *testing.T) {
	cfg := &config.Config{AuthJWTSecret: testSecret}

	t.Run("wrong secret", func(t *testing.T) {
		code, _, _ := serve(cfg, "Bearer "+signToken(t, jwt.SigningMethodHS256, "wrong-secret", validClaims()))
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("HS512 is not accepted", func(t *testing.T) {
		code, _, _ := serve(cfg, "Bearer "+signToken(t, jwt.SigningMethodHS512, testSecret, validClaims()))
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestAuthMiddleware_IssuerOnlyCheckedWhenConfigured(t *testing.T) {
	cfg := &config.Config{AuthJWTSecret: testSecret}

	claims := validClaims()
	claims["iss"] = "https://anything.test"
	code, userID, _ := serve(cfg, "Bearer "+signToken(t, jwt.SigningMethodHS256, testSecret, claims))
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, "user-123", userID)

	delete(claims, "iss")
	code, _, _ = serve(cfg, "Bearer "+signToken(t, jwt.SigningMethodHS256, testSecret, claims))
	assert.Equal(t, http.StatusNoContent, code)
}

func TestGetUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	userID, ok := GetUserID(context.WithValue(context.Background(), UserIDKey, "user-7"))
	assert.True(t, ok)
	assert.Equal(t, "user-7", userID)
}
