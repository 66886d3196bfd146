package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	productrepo "github.com/fekuna/frameshop-storefront/internal/product/repository"
	productuc "github.com/fekuna/frameshop-storefront/internal/product/usecase"
	"github.com/fekuna/frameshop-storefront/internal/profile/repository"
	"github.com/fekuna/frameshop-storefront/internal/profile/usecase"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "profile-test-secret"

func TestProfileRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	client := memory.NewWithFixture()
	products := productuc.NewProductUseCase(productrepo.NewProductRepository(client), nil, nil, nil, log)
	h := NewProfileHandler(usecase.NewProfileUseCase(repository.NewProfileRepository(client), products, log), log)

	r := gin.New()
	r.Use(auth.Authenticate(auth.NewVerifier(secret, client, log), log))
	h.RegisterRoutes(r.Group("/me", auth.RequireUser()))

	tok, err := auth.Sign(secret, "u1", "u1@example.com", time.Hour)
	require.NoError(t, err)

	do := func(method, path, body string, withToken bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if withToken {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/me/profile", "", false).Code)

	w := do(http.MethodGet, "/me/profile", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1@example.com")

	w = do(http.MethodPut, "/me/profile", `{"first_name":"Ada","email":"ada@example.com"}`, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(http.MethodPut, "/me/profile", `{"email":""}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPut, "/me/saved-items/a3e5c7d1-0000-4000-8000-000000000004", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(http.MethodGet, "/me/saved-items", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Minimalist Line Art")

	w = do(http.MethodDelete, "/me/saved-items/a3e5c7d1-0000-4000-8000-000000000004", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(http.MethodDelete, "/me/saved-items/a3e5c7d1-0000-4000-8000-000000000004", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
