package order

import (
	"context"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = fmt.Errorf("order %w", apperror.ErrNotFound)
	ErrInvalidStatus = fmt.Errorf("invalid order status: %w", apperror.ErrInvalidInput)
)

// Overview is the admin dashboard's headline numbers.
type Overview struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	OrderCount    int             `json:"order_count"`
	CustomerCount int             `json:"customer_count"`
	ProductCount  int             `json:"product_count"`
	RecentOrders  []model.Order   `json:"recent_orders"`
	LowStock      []model.Product `json:"low_stock"`
}

type UseCase interface {
	// Customer
	ListMyOrders(ctx context.Context) ([]model.Order, error)
	GetMyOrder(ctx context.Context, id string) (*model.Order, error)

	// Admin
	ListOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Overview(ctx context.Context) (*Overview, error)
}
