package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reminderly/reminders-api/internal/middleware"
)

var testSecret = []byte("test-secret-key")

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newAuth(t *testing.T, cfg middleware.AuthConfig) *middleware.Auth {
	t.Helper()
	auth, err := middleware.NewAuth(cfg)
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	return auth
}

func TestNewAuth_RequiresSecret(t *testing.T) {
	if _, err := middleware.NewAuth(middleware.AuthConfig{DevMode: false}); err == nil {
		t.Error("expected error for missing secret outside dev mode")
	}
	if _, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true}); err != nil {
		t.Errorf("dev mode without secret should be fine, got %v", err)
	}
}

func TestAuth_DevMode(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: true})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		userIDHdr  string
		wantStatus int
		wantUserID string
	}{
		{"with X-User-ID", "dev-user-1", http.StatusOK, "dev-user-1"},
		{"without X-User-ID", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturedUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			if tt.userIDHdr != "" {
				req.Header.Set("X-User-ID", tt.userIDHdr)
			}
			w := httptest.NewRecorder()

			auth.Middleware(inner).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus == http.StatusOK && capturedUserID != tt.wantUserID {
				t.Errorf("expected userID=%q, got %q", tt.wantUserID, capturedUserID)
			}
		})
	}
}

func TestAuth_SkipsHealthCheck(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for /health, got %d", w.Code)
	}
}

func TestAuth_SkipsPublicAuthEndpoints(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	var called bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	paths := []string{
		"/api/v1/auth/register",
		"/api/v1/auth/verify-registration",
		"/api/v1/auth/login",
		"/api/v1/auth/forgot-password",
		"/api/v1/auth/verify-otp",
		"/api/v1/auth/verify-password-reset",
	}

	for _, path := range paths {
		called = false
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()

		auth.Middleware(inner).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
		if !called {
			t.Errorf("%s: inner handler was not called", path)
		}
	}
}

func TestAuth_ProtectsMeAndProfile(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/auth/profile"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()

		auth.Middleware(inner).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, w.Code)
		}
	}
}

func TestAuth_JWT_Valid(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	var capturedUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserID = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}
	if capturedUserID != "user-123" {
		t.Errorf("expected userID=user-123, got %q", capturedUserID)
	}
}

func TestAuth_JWT_MissingHeader(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_JWT_ExpiredToken(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	token := signedToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_JWT_WrongSecret(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	token := signedToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_JWT_InvalidBearerFormat(t *testing.T) {
	auth := newAuth(t, middleware.AuthConfig{DevMode: false, Secret: testSecret})

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	req.Header.Set("Authorization", "NotBearer token")
	w := httptest.NewRecorder()

	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
