package usecase

import (
	"context"
	"sort"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/order"
	"github.com/fekuna/frameshop-storefront/internal/product"
	"github.com/fekuna/frameshop-storefront/internal/product/dto"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const recentOrders = 5

type orderUseCase struct {
	repo     order.Repository
	products product.UseCase
	logger   logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, products product.UseCase, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *orderUseCase) ListMyOrders(ctx context.Context) ([]model.Order, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrUnauthenticated
	}
	return uc.repo.FindByUser(ctx, userID)
}

// GetMyOrder hides other customers' orders behind not-found.
func (uc *orderUseCase) GetMyOrder(ctx context.Context, id string) (*model.Order, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrUnauthenticated
	}
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID == nil || *o.UserID != userID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, order.ErrInvalidStatus
	}
	offset := 0
	if page > 1 && pageSize > 0 {
		offset = (page - 1) * pageSize
	}
	return uc.repo.FindAll(ctx, status, pageSize, offset)
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, order.ErrInvalidStatus
	}
	o, err := uc.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	uc.logger.Info("order status updated", zap.String("order_id", id), zap.String("status", string(status)))
	return o, nil
}

// Overview counts cancelled orders but leaves them out of sales.
func (uc *orderUseCase) Overview(ctx context.Context) (*order.Overview, error) {
	orders, err := uc.repo.FindAll(ctx, "", 0, 0)
	if err != nil {
		return nil, err
	}
	products, _, err := uc.products.ListAllProducts(ctx, &dto.ProductFilters{IncludeInactive: true})
	if err != nil {
		return nil, err
	}

	out := &order.Overview{
		TotalSales:   decimal.Zero,
		OrderCount:   len(orders),
		ProductCount: len(products),
		RecentOrders: orders,
		LowStock:     []model.Product{},
	}

	customers := make(map[string]struct{})
	for _, o := range orders {
		if o.Status != model.OrderStatusCancelled {
			out.TotalSales = out.TotalSales.Add(o.Total)
		}
		key := o.Email
		if o.UserID != nil {
			key = *o.UserID
		}
		customers[key] = struct{}{}
	}
	out.CustomerCount = len(customers)

	if len(out.RecentOrders) > recentOrders {
		out.RecentOrders = out.RecentOrders[:recentOrders]
	}

	for i := range products {
		if products[i].LowStock() {
			out.LowStock = append(out.LowStock, products[i])
		}
	}
	sort.SliceStable(out.LowStock, func(i, j int) bool {
		return out.LowStock[i].Stock < out.LowStock[j].Stock
	})

	return out, nil
}
