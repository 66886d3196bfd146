package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Page wraps list payloads that carry a total count.
type Page struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Response{
		Status:  "fail",
		Message: message,
	})
}

// HandleError maps err to a status and writes the failure envelope. Server
// side failures are recorded on the gin context for the request logger.
func HandleError(c *gin.Context, err error) {
	status := MapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(status, Response{
			Status:  "fail",
			Message: "validation failed",
			Errors:  fieldErrors(verrs),
		})
		return
	}
	ErrorResponse(c, status, err.Error())
}

func MapErrorToStatus(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, apperror.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	}

	var qe *backend.QueryError
	if errors.As(err, &qe) {
		switch qe.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
			return qe.Status
		case http.StatusBadRequest:
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   toSnake(fe.Field()),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}

func toSnake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
