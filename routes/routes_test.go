package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"pocketblog/controllers"
	"pocketblog/db"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testConfig struct {
	token string
	limit int
}

func (c testConfig) GetBearerToken() string { return c.token }
func (c testConfig) Origins() []string      { return []string{"http://localhost:3000"} }
func (c testConfig) GetRateLimit() int      { return c.limit }

func setup(t *testing.T, cfg testConfig) http.Handler {
	t.Helper()
	screen := controllers.NewScreen(db.NewPostStore(db.NewMemoryKV(), nil))
	_, err := screen.Mount(context.Background()).Wait(context.Background())
	require.NoError(t, err)
	handler, stop := SetupRoutes(cfg, screen, zap.NewNop())
	t.Cleanup(func() {
		stop()
		_ = screen.Close(context.Background())
	})
	return handler
}

func get(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSetupRoutes_BearerProtectsAPI(t *testing.T) {
	h := setup(t, testConfig{token: "s3cret"})

	assert.Equal(t, http.StatusUnauthorized, get(h, "/posts", "").Code)
	assert.Equal(t, http.StatusOK, get(h, "/posts", "s3cret").Code)
	assert.Equal(t, http.StatusOK, get(h, "/", "s3cret").Code)
}

func TestSetupRoutes_MetricsArePublic(t *testing.T) {
	h := setup(t, testConfig{token: "s3cret"})

	rec := get(h, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pocketblog_"), "collectors are registered")
}

func TestSetupRoutes_RequestIDHeader(t *testing.T) {
	h := setup(t, testConfig{})

	rec := get(h, "/screen", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSetupRoutes_RateLimit(t *testing.T) {
	h := setup(t, testConfig{limit: 1})

	assert.Equal(t, http.StatusOK, get(h, "/healthz", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/healthz", "").Code)
}

func TestSetupRoutes_Preflight(t *testing.T) {
	h := setup(t, testConfig{token: "s3cret"})

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestSetupRoutes_CorsHeadersOnAPIResponses(t *testing.T) {
	h := setup(t, testConfig{})

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
