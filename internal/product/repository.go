package product

import (
	"context"

	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, q catalog.Query) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Patch(ctx context.Context, id string, fields map[string]interface{}) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}
