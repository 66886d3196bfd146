package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/product/repository"
	"github.com/fekuna/frameshop-storefront/internal/product/usecase"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

type page struct {
	Items []model.Product `json:"items"`
	Total int             `json:"total"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	uc := usecase.NewProductUseCase(repository.NewProductRepository(memory.NewWithFixture()), nil, nil, nil, log)
	h := NewProductHandler(uc, log)

	r := gin.New()
	h.RegisterRoutes(r)
	h.RegisterAdminRoutes(r.Group("/admin"))
	return r
}

func call(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestListProducts(t *testing.T) {
	r := newRouter(t)

	w, env := call(t, r, http.MethodGet, "/products?category="+memory.CategoryRusticID+"&sort=price-high", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p page
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 2, p.Total)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "Rustic Botanical Print", p.Items[0].Name)
	assert.Equal(t, "Rustic Wood Frame", p.Items[1].Name)
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	r := newRouter(t)

	for _, path := range []string{"/products?min_price=cheap", "/products?page=0", "/products?page_size=-1"} {
		w, env := call(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "fail", env.Status, path)
	}
}

func TestGetProduct(t *testing.T) {
	r := newRouter(t)

	w, env := call(t, r, http.MethodGet, "/products/a3e5c7d1-0000-4000-8000-000000000003", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Abstract Contemporary Art", p.Name)

	w, _ = call(t, r, http.MethodGet, "/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = call(t, r, http.MethodGet, "/products/a3e5c7d1-0000-4000-8000-000000000003/sizes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sizes []model.SizeOption
	require.NoError(t, json.Unmarshal(env.Data, &sizes))
	assert.Len(t, sizes, 3)
}

func TestSearchProducts(t *testing.T) {
	r := newRouter(t)

	w, env := call(t, r, http.MethodGet, "/products/search?q=abstract", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p page
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 2, p.Total)
}

func TestAdminCreateAndDeactivate(t *testing.T) {
	r := newRouter(t)

	w, env := call(t, r, http.MethodPost, "/admin/products", map[string]interface{}{
		"name":     "Walnut Shadow Box",
		"price":    "149.00",
		"material": "Wood",
		"stock":    5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.IsActive)

	w, _ = call(t, r, http.MethodPut, "/admin/products/"+created.ID+"/active", map[string]interface{}{"value": false})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, r, http.MethodGet, "/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = call(t, r, http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p page
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 9, p.Total)
	assert.Equal(t, created.ID, p.Items[0].ID)
}

func TestAdminCreateValidation(t *testing.T) {
	r := newRouter(t)

	w, env := call(t, r, http.MethodPost, "/admin/products", map[string]interface{}{
		"name":     "Glass Frame",
		"price":    "20",
		"material": "Glass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "material", env.Errors[0].Field)

	w, _ = call(t, r, http.MethodPost, "/admin/products", map[string]interface{}{"name": "Free", "price": "0"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminFlagRequiresValue(t *testing.T) {
	r := newRouter(t)

	w, _ := call(t, r, http.MethodPut, "/admin/products/a3e5c7d1-0000-4000-8000-000000000002/featured", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPut, "/admin/products/missing/featured", map[string]interface{}{"value": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDelete(t *testing.T) {
	r := newRouter(t)

	w, _ := call(t, r, http.MethodDelete, "/admin/products/a3e5c7d1-0000-4000-8000-000000000002", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, r, http.MethodGet, "/products/a3e5c7d1-0000-4000-8000-000000000002", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnconfiguredServices(t *testing.T) {
	r := newRouter(t)

	w, _ := call(t, r, http.MethodPost, "/admin/products/reindex", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "frame.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/a3e5c7d1-0000-4000-8000-000000000002/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
