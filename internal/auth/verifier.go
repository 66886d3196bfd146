package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims mirrors the access tokens minted by the backend's auth service.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier turns a backend-issued HS256 access token into a Session. The
// admin flag comes from the user_roles collection, read with the caller's own
// token so the backend's row policies apply.
type Verifier struct {
	secret []byte
	client backend.Client
	logger logger.ZapLogger
	now    func() time.Time
}

func NewVerifier(secret string, client backend.Client, log logger.ZapLogger) *Verifier {
	return &Verifier{secret: []byte(secret), client: client, logger: log, now: time.Now}
}

func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil || !token.Valid {
		v.logger.Debug("token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	s := &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Token:  tokenString,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}

	isAdmin, err := v.isAdmin(backend.WithAccessToken(ctx, tokenString), s.UserID)
	if err != nil {
		return nil, err
	}
	s.IsAdmin = isAdmin
	return s, nil
}

func (v *Verifier) isAdmin(ctx context.Context, userID string) (bool, error) {
	q := catalog.NewQuery(catalog.CollectionUserRoles).
		Where(catalog.Eq(catalog.FieldUserID, userID), catalog.Eq("role", model.RoleAdmin)).
		Page(1, 0)

	var roles []model.UserRole
	if err := v.client.Select(ctx, q, &roles); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup roles: %w", err)
	}
	return len(roles) > 0, nil
}

// Sign mints a token in the backend's format. Used by tests and local tooling.
func Sign(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
