package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/order"
)

type orderRepository struct {
	client backend.Client
}

func NewOrderRepository(client backend.Client) order.Repository {
	return &orderRepository{client: client}
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	row := map[string]interface{}{
		"user_id":          o.UserID,
		"status":           o.Status,
		"email":            o.Email,
		"phone":            o.Phone,
		"shipping_address": o.ShippingAddress,
		"items":            o.Items,
		"subtotal":         o.Subtotal,
		"shipping":         o.Shipping,
		"tax":              o.Tax,
		"total":            o.Total,
		"payment_method":   o.PaymentMethod,
	}

	var created model.Order
	if err := r.client.Insert(ctx, catalog.CollectionOrders, row, &created); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	*o = created
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.client.Get(ctx, catalog.CollectionOrders, id, &o)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	return &o, nil
}

func (r *orderRepository) FindByUser(ctx context.Context, userID string) ([]model.Order, error) {
	q := catalog.NewQuery(catalog.CollectionOrders).
		Where(catalog.Eq(catalog.FieldUserID, userID)).
		OrderBy(catalog.Desc(catalog.FieldCreatedAt))
	return r.selectOrders(ctx, q)
}

// FindAll lists orders newest first. An empty status matches every order.
func (r *orderRepository) FindAll(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, error) {
	q := catalog.NewQuery(catalog.CollectionOrders)
	if status != "" {
		q = q.Where(catalog.Eq(catalog.FieldStatus, string(status)))
	}
	q = q.OrderBy(catalog.Desc(catalog.FieldCreatedAt)).Page(limit, offset)
	return r.selectOrders(ctx, q)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	var o model.Order
	err := r.client.Update(ctx, catalog.CollectionOrders, id, map[string]interface{}{catalog.FieldStatus: status}, &o)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	return &o, nil
}

func (r *orderRepository) selectOrders(ctx context.Context, q catalog.Query) ([]model.Order, error) {
	var orders []model.Order
	if err := r.client.Select(ctx, q, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}
