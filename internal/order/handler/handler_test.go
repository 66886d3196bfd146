package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/order/repository"
	"github.com/fekuna/frameshop-storefront/internal/order/usecase"
	productrepo "github.com/fekuna/frameshop-storefront/internal/product/repository"
	productuc "github.com/fekuna/frameshop-storefront/internal/product/usecase"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "order-test-secret"

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	client := memory.NewWithFixture()
	client.Seed(catalog.CollectionUserRoles, catalog.Row{"id": "r1", "user_id": "admin-1", "role": model.RoleAdmin})
	client.Seed(catalog.CollectionOrders, catalog.Row{
		"id": "o1", "user_id": "u1", "status": "pending", "email": "ada@example.com",
		"items": []interface{}{}, "total": "99.00", "created_at": "2024-03-01T10:00:00Z",
	})

	products := productuc.NewProductUseCase(productrepo.NewProductRepository(client), nil, nil, nil, log)
	h := NewOrderHandler(usecase.NewOrderUseCase(repository.NewOrderRepository(client), products, log), log)

	r := gin.New()
	r.Use(auth.Authenticate(auth.NewVerifier(secret, client, log), log))
	h.RegisterRoutes(r.Group("", auth.RequireUser()))
	h.RegisterAdminRoutes(r.Group("/admin", auth.RequireAdmin()))
	return r
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.Sign(secret, userID, userID+"@example.com", time.Hour)
	require.NoError(t, err)
	return tok
}

func send(r *gin.Engine, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCustomerRoutes(t *testing.T) {
	r := newRouter(t)

	w := send(r, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = send(r, http.MethodGet, "/orders", token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data []model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)

	w = send(r, http.MethodGet, "/orders/o1", token(t, "u2"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	r := newRouter(t)

	w := send(r, http.MethodGet, "/admin/overview", token(t, "u1"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := token(t, "admin-1")
	w = send(r, http.MethodGet, "/admin/overview", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(r, http.MethodPut, "/admin/orders/o1/status", admin, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPut, "/admin/orders/o1/status", admin, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodGet, "/admin/orders?status=shipped", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data []model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, model.OrderStatusShipped, env.Data[0].Status)
}
