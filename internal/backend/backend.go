package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
)

// Client is the storefront's view of the managed data backend. Persistence,
// row-level security and stock bookkeeping all live behind it.
//
// dest arguments are JSON-compatible pointers: a pointer to a slice for Select
// and a pointer to a struct for single-row calls. A nil dest discards the row.
type Client interface {
	Select(ctx context.Context, q catalog.Query, dest interface{}) error
	Get(ctx context.Context, collection, id string, dest interface{}) error
	Insert(ctx context.Context, collection string, row interface{}, dest interface{}) error
	Update(ctx context.Context, collection, id string, patch interface{}, dest interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// ErrNotFound is returned by single-row operations that matched nothing.
var ErrNotFound = fmt.Errorf("record %w", apperror.ErrNotFound)

// QueryError is the failure reported for any backend operation that did not
// complete: transport errors, rejected filters and permission denials alike.
type QueryError struct {
	Collection string
	Status     int
	Message    string
}

func (e *QueryError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("query %s failed (%d): %s", e.Collection, e.Status, e.Message)
	}
	return fmt.Sprintf("query %s failed: %s", e.Collection, e.Message)
}

// IsQueryError reports whether err carries a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

type tokenKey struct{}

// WithAccessToken attaches the caller's backend access token to ctx. Adapters
// that forward credentials use it in place of the service key.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
