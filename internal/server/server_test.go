package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alfagnish/users-api/internal/config"
	"github.com/alfagnish/users-api/internal/events"
	"github.com/alfagnish/users-api/internal/logging"
	"github.com/alfagnish/users-api/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{CORSOrigins: []string{"*"}}
	return New(cfg, users.NewSeededStore(), events.NewHub(0), logging.Nop())
}

// jsonRequest builds a request whose body, when present, is labelled JSON.
func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		path     string
		body     string
		wantCode int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/hello", "", http.StatusOK},
		{http.MethodGet, "/api/users", "", http.StatusOK},
		{http.MethodGet, "/api/users/", "", http.StatusOK},
		{http.MethodGet, "/api/users/1", "", http.StatusOK},
		{http.MethodGet, "/api/users/99", "", http.StatusNotFound},
		{http.MethodPost, "/api/users", `{"name":"Carol","email":"carol@example.com"}`, http.StatusCreated},
		{http.MethodPost, "/api/users", `{"name":"NoEmail"}`, http.StatusBadRequest},
		{http.MethodPut, "/api/users/1", `{"name":"Alicia"}`, http.StatusOK},
		{http.MethodDelete, "/api/users/2", "", http.StatusOK},
		{http.MethodGet, "/does/not/exist", "", http.StatusNotFound},
		{http.MethodPatch, "/api/users/1", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			h := newTestServer(t)

			rec := serve(h, jsonRequest(tt.method, tt.path, tt.body))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body any
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "response is JSON: %s", rec.Body.String())
		})
	}
}

func TestScenario(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := serve(h, jsonRequest(http.MethodPost, "/api/users",
		`{"name":"Carol","email":"carol@example.com"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":3,"name":"Carol","email":"carol@example.com"}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/users/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())

	rec = serve(h, jsonRequest(http.MethodPut, "/api/users/1", `{"name":"Alicia"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alicia","email":"alice@example.com"}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodDelete, "/api/users/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"name":"Bob","email":"bob@example.com","tags":["tags","active","tester"]}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.JSONEq(t, `[
		{"id":1,"name":"Alicia","email":"alice@example.com"},
		{"id":3,"name":"Carol","email":"carol@example.com"}
	]`, rec.Body.String())

	rec = serve(h, jsonRequest(http.MethodPost, "/api/users", `{"name":"NoEmail"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Name and email required"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://example.com")
	rec = serve(h, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	h := newTestServer(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
