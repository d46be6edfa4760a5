// ABOUTME: HTTP middleware for JWT authentication on service endpoints
// ABOUTME: Extracts the bearer token, verifies it, and answers failures with an Unauthorized envelope

package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/maze-gateway/internal/result"
)

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// MiddlewareOptions configures HTTPAuthMiddleware.
type MiddlewareOptions struct {
	// OpenPaths are served without a token (health, metrics).
	OpenPaths []string

	// LegacyStatus answers rejections with 200 instead of 401.
	LegacyStatus bool

	Logger *slog.Logger
}

// HTTPAuthMiddleware creates an HTTP middleware that requires a valid bearer
// token on every path not listed in opts.OpenPaths. The token subject is
// added to the request context.
func HTTPAuthMiddleware(verifier TokenVerifier, opts MiddlewareOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	open := make(map[string]bool, len(opts.OpenPaths))
	for _, p := range opts.OpenPaths {
		open[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token, errMsg := extractBearerToken(r.Header.Get("Authorization"))
			if errMsg != "" {
				reject(w, errMsg, opts.LegacyStatus)
				return
			}

			subject, err := verifier.Verify(token)
			if err != nil {
				logger.Warn("rejected token", "path", r.URL.Path, "error", err)
				reject(w, err.Error(), opts.LegacyStatus)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

func reject(w http.ResponseWriter, msg string, legacy bool) {
	_ = result.Write(w, result.Err(result.ErrUnauthorized, msg), legacy)
}
