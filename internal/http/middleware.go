package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/meetsync/internal/application"
)

// IdentityHeader names the header carrying the resolved caller identity.
// Session issuance and verification are handled upstream; this service only
// trusts the identity an authenticating proxy injects.
const IdentityHeader = "X-User-ID"

// RequireIdentity resolves the caller identity from the request and fails
// closed with UNAUTHORIZED when it is absent.
func RequireIdentity(logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(IdentityHeader))
			if userID == "" {
				responder.writeErrorCode(r.Context(), w, http.StatusUnauthorized, codeUnauthorized, "no caller identity was resolved", nil)
				return
			}

			ctx := ContextWithPrincipal(r.Context(), application.Principal{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request-scoped logger to the context and records
// request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
