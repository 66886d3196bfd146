package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/pkg/cache"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-test-secret"

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(r gin.IRouter) {
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
}

func (pingRoutes) RegisterAdminRoutes(r gin.IRouter) {
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "admin pong") })
}

func newRouter(t *testing.T, rc *cache.RedisClient) (*gin.Engine, *memory.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	client := memory.NewWithFixture()
	client.Seed(catalog.CollectionUserRoles, catalog.Row{"id": "r1", "user_id": "admin-1", "role": model.RoleAdmin})

	r := NewRouter(
		Config{AllowedOrigins: []string{"http://localhost:5173"}, AdminRateLimit: 2},
		Handlers{Public: []Routes{pingRoutes{}}, User: []Routes{pingRoutes{}}, Admin: []AdminRoutes{pingRoutes{}}},
		Deps{Verifier: auth.NewVerifier(secret, client, log), Backend: client, Redis: rc, Logger: log},
	)
	return r, client
}

func get(r *gin.Engine, path, userID string, t *testing.T) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		tok, err := auth.Sign(secret, userID, userID+"@example.com", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r, client := newRouter(t, nil)

	w := get(r, "/healthz", "", t)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	client.FailWith(errors.New("down"))
	w = get(r, "/healthz", "", t)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
}

func TestAccessLevels(t *testing.T) {
	r, _ := newRouter(t, nil)

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/ping", "", t).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/me/ping", "", t).Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/me/ping", "u1", t).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/v1/admin/ping", "u1", t).Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/admin/ping", "admin-1", t).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/nowhere", "", t).Code)
}

func TestRecovery(t *testing.T) {
	r, _ := newRouter(t, nil)

	w := get(r, "/api/v1/boom", "", t)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })
	r, _ := newRouter(t, rc)

	w := get(r, "/api/v1/admin/ping", "admin-1", t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/admin/ping", "admin-1", t).Code)
	w = get(r, "/api/v1/admin/ping", "admin-1", t)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/admin/ping", "admin-1", t).Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })
	r, _ := newRouter(t, rc)

	mr.Close()
	assert.Equal(t, http.StatusOK, get(r, "/api/v1/admin/ping", "admin-1", t).Code)
}
