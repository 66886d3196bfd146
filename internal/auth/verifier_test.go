package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newVerifier() (*Verifier, *memory.Client) {
	client := memory.New()
	client.Seed(catalog.CollectionUserRoles, catalog.Row{"id": "r1", "user_id": "admin-1", "role": "admin"})
	return NewVerifier(testSecret, client, logger.NewNop()), client
}

func TestVerifyCustomerAndAdmin(t *testing.T) {
	v, _ := newVerifier()

	token, err := Sign(testSecret, "user-1", "jane@example.com", time.Hour)
	require.NoError(t, err)
	s, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "jane@example.com", s.Email)
	assert.False(t, s.IsAdmin)
	assert.Equal(t, token, s.Token)

	token, err = Sign(testSecret, "admin-1", "ops@example.com", time.Hour)
	require.NoError(t, err)
	s, err = v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, s.IsAdmin)
}

func TestVerifyRejects(t *testing.T) {
	v, _ := newVerifier()

	wrongKey, err := Sign("other-secret", "user-1", "a@b.c", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), wrongKey)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	expired, err := Sign(testSecret, "user-1", "a@b.c", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "a@b.c"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = v.Verify(context.Background(), noSubject)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newRouter(v *Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(v, logger.NewNop()))
	r.GET("/open", func(c *gin.Context) {
		_, ok := SessionFromGin(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	r.GET("/me", RequireUser(), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c.Request.Context()))
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	v, _ := newVerifier()
	r := newRouter(v)

	user, _ := Sign(testSecret, "user-1", "a@b.c", time.Hour)
	admin, _ := Sign(testSecret, "admin-1", "ops@b.c", time.Hour)

	w := do(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", "bogus").Code)

	w = do(r, "/me", user)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", user).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", admin).Code)
}
