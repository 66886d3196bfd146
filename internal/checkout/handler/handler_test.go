package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	carthandler "github.com/fekuna/frameshop-storefront/internal/cart/handler"
	"github.com/fekuna/frameshop-storefront/internal/cart/store"
	cartuc "github.com/fekuna/frameshop-storefront/internal/cart/usecase"
	"github.com/fekuna/frameshop-storefront/internal/checkout"
	"github.com/fekuna/frameshop-storefront/internal/checkout/usecase"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/order/repository"
	productrepo "github.com/fekuna/frameshop-storefront/internal/product/repository"
	productuc "github.com/fekuna/frameshop-storefront/internal/product/usecase"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProfile struct {
	p *model.Profile
}

func (s staticProfile) GetProfile(context.Context) (*model.Profile, error) {
	if s.p == nil {
		return nil, apperror.ErrUnauthenticated
	}
	return s.p, nil
}

func newRouter(profile *model.Profile) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	client := memory.NewWithFixture()
	carts := store.NewMemoryStore(time.Hour)
	products := productuc.NewProductUseCase(productrepo.NewProductRepository(client), nil, nil, nil, log)

	r := gin.New()
	carthandler.NewCartHandler(cartuc.NewCartUseCase(carts, products, log), log).RegisterRoutes(r)
	uc := usecase.NewCheckoutUseCase(carts, repository.NewOrderRepository(client), nil, log)
	NewCheckoutHandler(uc, staticProfile{p: profile}, log).RegisterRoutes(r)
	return r
}

func send(r *gin.Engine, method, path, cartID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(carthandler.HeaderCartID, cartID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func shipping() checkout.Form {
	return checkout.Form{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "5550100",
		Street: "12 Analytical Way", City: "Portland", State: "OR", Zip: "97201",
	}
}

func TestCheckoutFlow(t *testing.T) {
	r := newRouter(nil)
	id := uuid.New().String()

	w := send(r, http.MethodPost, "/checkout", id, shipping())
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")

	w = send(r, http.MethodPost, "/cart/items", id, map[string]interface{}{
		"product_id": "a3e5c7d1-0000-4000-8000-000000000007",
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/checkout", id, shipping())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var env struct {
		Message string      `json:"message"`
		Data    model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Order placed successfully!", env.Message)
	assert.Equal(t, "161.99", env.Data.Total.StringFixed(2))

	w = send(r, http.MethodGet, "/cart", id, nil)
	var cartEnv struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartEnv))
	assert.Equal(t, 0, cartEnv.Data.Count)
}

func TestCheckoutValidationErrors(t *testing.T) {
	r := newRouter(nil)
	id := uuid.New().String()

	f := shipping()
	f.Email = "nope"
	w := send(r, http.MethodPost, "/checkout", id, f)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var env struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "email", env.Errors[0].Field)
}

func TestCheckoutFormPrefill(t *testing.T) {
	r := newRouter(&model.Profile{ID: "u1", FirstName: "Ada", Email: "ada@example.com", Address: model.Address{City: "Portland"}})

	w := send(r, http.MethodGet, "/checkout/form", uuid.New().String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data checkout.Form `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Ada", env.Data.FirstName)
	assert.Equal(t, "Portland", env.Data.City)
}
