package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ginSessionKey = "session"

// Authenticate resolves an optional bearer token. Guests pass through with no
// session; a malformed or rejected token is a 401.
func Authenticate(v *Verifier, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			log.Warn("invalid authorization header format")
			delivery.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		s, err := v.Verify(c.Request.Context(), parts[1])
		if err != nil {
			delivery.HandleError(c, err)
			return
		}

		c.Set(ginSessionKey, s)
		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
		log.Debug("request authenticated", zap.String("user_id", s.UserID), zap.Bool("is_admin", s.IsAdmin))
		c.Next()
	}
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFromGin(c); !ok {
			delivery.HandleError(c, ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := SessionFromGin(c)
		if !ok {
			delivery.HandleError(c, ErrUnauthenticated)
			return
		}
		if !s.IsAdmin {
			delivery.HandleError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func SessionFromGin(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ginSessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
