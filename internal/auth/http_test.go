// ABOUTME: Tests for HTTP authentication middleware
// ABOUTME: Covers token extraction, validation, open paths, and legacy status mode

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(t *testing.T, legacy bool) (http.Handler, *JWTVerifier, *string) {
	t.Helper()

	verifier := NewJWTVerifier(testSecret)
	var gotSubject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := HTTPAuthMiddleware(verifier, MiddlewareOptions{
		OpenPaths:    []string{"/maze/health", "/metrics"},
		LegacyStatus: legacy,
	})
	return mw(next), verifier, &gotSubject
}

func TestHTTPAuthMiddleware_ValidToken(t *testing.T) {
	handler, verifier, gotSubject := newAuthHandler(t, false)

	token, err := verifier.Generate("ops", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/maze", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", *gotSubject)
}

func TestHTTPAuthMiddleware_Rejects(t *testing.T) {
	handler, verifier, _ := newAuthHandler(t, false)
	expired, err := verifier.Generate("ops", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr string
	}{
		{"missing header", "", "missing authorization header"},
		{"basic auth", "Basic dXNlcjpwYXNz", "invalid authorization header format"},
		{"empty bearer", "Bearer ", "empty token"},
		{"garbage", "Bearer nope", ""},
		{"expired", "Bearer " + expired, "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/maze/m1?row=0&col=0", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"ok":false`)
			if tt.wantErr != "" {
				assert.Contains(t, rec.Body.String(), `"error":"`+tt.wantErr+`"`)
			}
		})
	}
}

func TestHTTPAuthMiddleware_OpenPaths(t *testing.T) {
	handler, _, gotSubject := newAuthHandler(t, false)

	for _, path := range []string{"/maze/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, *gotSubject, path)
	}
}

func TestHTTPAuthMiddleware_LegacyStatus(t *testing.T) {
	handler, _, _ := newAuthHandler(t, true)

	req := httptest.NewRequest(http.MethodGet, "/maze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"missing authorization header"}`, rec.Body.String())
}
