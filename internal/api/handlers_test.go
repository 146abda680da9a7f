package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHandleHealth(t *testing.T) {
	api := &API{}

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	api.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", resp.StatusCode)
	}

	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("Expected health body, got %s", w.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	api := &API{jwtSecret: []byte("test-secret")}

	handler := api.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called without authorization")
	}))

	req := httptest.NewRequest("GET", "/api/user/guilds", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Result().StatusCode)
	}
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	api := &API{jwtSecret: []byte("test-secret")}

	handler := api.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called with a malformed header")
	}))

	req := httptest.NewRequest("GET", "/api/user/guilds", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Result().StatusCode)
	}
}

func TestAuthMiddlewareRejectsBadSignature(t *testing.T) {
	api := &API{jwtSecret: []byte("test-secret")}

	claims := &Claims{
		UserID:   "1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	handler := api.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called with a forged token")
	}))

	req := httptest.NewRequest("GET", "/api/user/guilds", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status Unauthorized, got %v", w.Result().StatusCode)
	}
}

func TestAuthMiddlewarePassesClaims(t *testing.T) {
	api := &API{jwtSecret: []byte("test-secret")}

	claims := &Claims{
		UserID:   "42",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(api.jwtSecret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	called := false
	handler := api.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got := r.Context().Value("claims").(*Claims)
		if got.UserID != "42" || got.Username != "alice" {
			t.Errorf("Unexpected claims: %+v", got)
		}
	}))

	req := httptest.NewRequest("GET", "/api/user/guilds", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !called {
		t.Error("Expected handler to be called with a valid token")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", w.Result().StatusCode)
	}
}
