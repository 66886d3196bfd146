package cart

import "context"

// Store persists carts by id. Load returns an empty cart for an unknown id.
type Store interface {
	Load(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, id string) error
}
