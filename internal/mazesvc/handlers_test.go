// ABOUTME: Tests for the maze HTTP handlers
// ABOUTME: Drives the router with httptest against MockStore and checks envelopes and status codes

package mazesvc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/maze-gateway/internal/result"
	"github.com/2389/maze-gateway/internal/store"
)

func newTestRouter(t *testing.T, legacy bool) (*mux.Router, *store.MockStore) {
	t.Helper()

	ms := store.NewMockStore()
	svc := New(ms, Options{
		Version:      "1.2.3",
		LegacyStatus: legacy,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	r := mux.NewRouter()
	svc.Register(r)
	return r, ms
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, reader))
	return rec
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, false)

	rec := do(r, http.MethodGet, "/maze/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"msg":"mazesvc 1.2.3 OK"}`, rec.Body.String())

	rec = do(r, http.MethodHead, "/maze/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInitializeAndQuery(t *testing.T) {
	r, ms := newTestRouter(t, false)

	rec := do(r, http.MethodPut, "/maze/m/5/5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	n, err := ms.CountCells(context.Background(), "m")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	rec = do(r, http.MethodGet, "/maze/m?row=3&col=4", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"state":"____","metadata":""}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/maze/m?row=3&col=4&dir=2", "")
	assert.JSONEq(t, `{"ok":true,"state":"_","metadata":""}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/maze/m/3/4", "")
	assert.JSONEq(t, `{"ok":true,"state":"____","metadata":""}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/maze/m/3/4/west", "")
	assert.JSONEq(t, `{"ok":true,"state":"_","metadata":""}`, rec.Body.String())
}

func TestReinitializeIsReset(t *testing.T) {
	r, ms := newTestRouter(t, false)

	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/maze/m/5/5", "").Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/maze/m/5/5", "").Code)

	n, err := ms.CountCells(context.Background(), "m")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	rec := do(r, http.MethodGet, "/maze", "")
	assert.JSONEq(t, `{"ok":true,"mazes":["m"]}`, rec.Body.String())
}

func TestListMazes_Empty(t *testing.T) {
	r, _ := newTestRouter(t, false)

	rec := do(r, http.MethodGet, "/maze", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"mazes":[]}`, rec.Body.String())
}

func TestQueryErrors(t *testing.T) {
	r, _ := newTestRouter(t, false)
	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/maze/m/5/5", "").Code)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{"missing row", "/maze/m?col=1", http.StatusBadRequest, "row and col are required"},
		{"missing col", "/maze/m?row=1", http.StatusBadRequest, "row and col are required"},
		{"non-numeric row", "/maze/m?row=x&col=1", http.StatusBadRequest, `m: row "x" is not an integer`},
		{"out of range", "/maze/m?row=100&col=1", http.StatusBadRequest, ""},
		{"bad direction", "/maze/m?row=0&col=0&dir=4", http.StatusBadRequest, ""},
		{"bad path direction", "/maze/m/0/0/up", http.StatusBadRequest, ""},
		{"missing cell", "/maze/m?row=10&col=10", http.StatusNotFound, "m: no cell r10c10"},
		{"missing maze", "/maze/nope/0/0", http.StatusNotFound, "nope: no cell r00c00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"ok":false`)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), `"error":`+jsonString(tt.wantError))
			}
		})
	}
}

func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func TestInitializeErrors(t *testing.T) {
	r, ms := newTestRouter(t, false)

	rec := do(r, http.MethodPut, "/maze/m/five/5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPut, "/maze/m/0/5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPut, "/maze/m/5/100", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ms.Err = result.Storage(errors.New("connection refused"), "could not initialize m")
	rec = do(r, http.MethodPut, "/maze/m/5/5", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"could not initialize m: connection refused"}`, rec.Body.String())
}

func TestUpdateCell(t *testing.T) {
	r, _ := newTestRouter(t, false)
	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/maze/m/3/3", "").Code)

	rec := do(r, http.MethodPatch, "/maze/m/1/2", `{"state":"#_#_","metadata":"torch"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"ok":true,"cell":"r01c02","state":"#_#_","metadata":"torch"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/maze/m/1/2/north", "")
	assert.JSONEq(t, `{"ok":true,"state":"#","metadata":"torch"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/maze/m/1/2/e", "")
	assert.JSONEq(t, `{"ok":true,"state":"_","metadata":"torch"}`, rec.Body.String())
}

func TestUpdateCellErrors(t *testing.T) {
	r, _ := newTestRouter(t, false)
	require.Equal(t, http.StatusOK, do(r, http.MethodPut, "/maze/m/3/3", "").Code)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
	}{
		{"empty body", "/maze/m/0/0", "", http.StatusBadRequest},
		{"bad json", "/maze/m/0/0", "{", http.StatusBadRequest},
		{"unknown field", "/maze/m/0/0", `{"walls":"####"}`, http.StatusBadRequest},
		{"no fields", "/maze/m/0/0", `{}`, http.StatusBadRequest},
		{"short state", "/maze/m/0/0", `{"state":"##"}`, http.StatusBadRequest},
		{"missing cell", "/maze/m/9/9", `{"state":"####"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPatch, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"ok":false`)
		})
	}
}

func TestLegacyStatus(t *testing.T) {
	r, _ := newTestRouter(t, true)

	rec := do(r, http.MethodGet, "/maze/nope?row=0&col=0", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"nope: no cell r00c00"}`, rec.Body.String())
}

func TestHealthNotAMaze(t *testing.T) {
	r, _ := newTestRouter(t, false)

	// "health" must never reach the cell query handler
	rec := do(r, http.MethodGet, "/maze/health?row=0&col=0", "")
	assert.Contains(t, rec.Body.String(), `"msg":"mazesvc 1.2.3 OK"`)
}
