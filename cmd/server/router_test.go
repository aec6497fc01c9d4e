package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-aktas/hocalingo-api/internal/config"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	return &application{
		config: &config.Config{
			Profile: config.ProfileConfig{DefaultID: "default"},
		},
		logger: slog.New(slog.NewTextHandler(testWriter{t}, nil)),
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func TestSetupRouterRegistersRoutes(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	registered := make(map[string]bool)
	err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /health",
		"GET /api/queue/",
		"GET /api/queue/check",
		"POST /api/items/{id}/grade",
		"GET /api/review/pick",
		"GET /api/stats/today",
		"GET /api/stats/streak",
		"POST /api/sessions/",
		"POST /api/sessions/{id}/finish",
		"POST /api/generation/",
		"GET /api/generation/{id}",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route not registered: %s", route)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"available"}`, rr.Body.String())
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
