package order

import (
	"context"

	"github.com/fekuna/frameshop-storefront/internal/model"
)

type Repository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByUser(ctx context.Context, userID string) ([]model.Order, error)
	FindAll(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}
