package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get product: %w", backend.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("cart item: %w", apperror.ErrNotFound), http.StatusNotFound},
		{apperror.ErrUnauthenticated, http.StatusUnauthorized},
		{apperror.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("slug: %w", apperror.ErrConflict), http.StatusConflict},
		{fmt.Errorf("quantity: %w", apperror.ErrInvalidInput), http.StatusBadRequest},
		{&backend.QueryError{Collection: "products", Status: 409, Message: "dup"}, http.StatusConflict},
		{&backend.QueryError{Collection: "products", Message: "connection refused"}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatus(tt.err), tt.err.Error())
	}
}

func TestHandleErrorValidation(t *testing.T) {
	type form struct {
		FirstName string `validate:"required"`
		Email     string `validate:"required,email"`
	}
	err := validator.New().Struct(form{Email: "nope"})
	require.Error(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fail", resp.Status)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, FieldError{Field: "first_name", Message: "is required"}, resp.Errors[0])
	assert.Equal(t, FieldError{Field: "email", Message: "must be a valid email address"}, resp.Errors[1])
}

func TestSuccessResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessResponse(c, http.StatusOK, "ok", Page{Items: []string{"a"}, Total: 1})

	assert.JSONEq(t, `{"status":"success","message":"ok","data":{"items":["a"],"total":1}}`, w.Body.String())
}
