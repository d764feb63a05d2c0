package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireIdentity(t *testing.T) {
	t.Parallel()

	t.Run("fails closed when no identity header is present", func(t *testing.T) {
		t.Parallel()

		handler := RequireIdentity(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called without an identity")
		}))

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}

		var envelope struct {
			Success bool `json:"success"`
			Error   *struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.NewDecoder(recorder.Body).Decode(&envelope); err != nil {
			t.Fatalf("failed to decode envelope: %v", err)
		}
		if envelope.Success || envelope.Error == nil || envelope.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("expected UNAUTHORIZED envelope, got %+v", envelope)
		}
	})

	t.Run("rejects a blank identity header", func(t *testing.T) {
		t.Parallel()

		handler := RequireIdentity(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called for a blank identity")
		}))

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		req.Header.Set(IdentityHeader, "   ")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("attaches the resolved principal to the context", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := RequireIdentity(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			principal, ok := PrincipalFromContext(r.Context())
			if !ok || principal.UserID != "user-1" {
				t.Fatalf("expected principal user-1, got %+v ok=%v", principal, ok)
			}
		}))

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		req.Header.Set(IdentityHeader, "user-1")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if !called {
			t.Fatal("expected next handler to be called")
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("attaches a request-scoped logger to the context", func(t *testing.T) {
		t.Parallel()

		base := slog.New(slog.NewTextHandler(io.Discard, nil))

		called := false
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			if LoggerFromContext(r.Context()) == nil {
				t.Fatal("expected a logger in the request context")
			}
		}))

		req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if !called {
			t.Fatal("expected next handler to be called")
		}
	})
}
