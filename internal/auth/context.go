package auth

import (
	"context"

	"github.com/fekuna/frameshop-storefront/internal/backend"
)

type sessionKey struct{}

// WithSession stores s in ctx and forwards its token to backend calls.
func WithSession(ctx context.Context, s *Session) context.Context {
	if s == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, sessionKey{}, s)
	return backend.WithAccessToken(ctx, s.Token)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// GetUserID returns the authenticated user's id or "" for guests.
func GetUserID(ctx context.Context) string {
	if s, ok := SessionFrom(ctx); ok {
		return s.UserID
	}
	return ""
}
