package usecase

import (
	"context"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/internal/checkout"
	"github.com/fekuna/frameshop-storefront/internal/mail"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/order"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type checkoutUseCase struct {
	carts    cart.Store
	orders   order.Repository
	mailer   mail.Sender
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewCheckoutUseCase(carts cart.Store, orders order.Repository, mailer mail.Sender, log logger.ZapLogger) checkout.UseCase {
	if mailer == nil {
		mailer = mail.NewLogSender(log)
	}
	return &checkoutUseCase{
		carts:    carts,
		orders:   orders,
		mailer:   mailer,
		validate: validator.New(),
		logger:   log,
	}
}

// PlaceOrder records a pending pay-later order for the cart's contents. The
// cart is emptied once the order exists; clearing and mailing failures are
// logged and do not undo the order.
func (uc *checkoutUseCase) PlaceOrder(ctx context.Context, cartID string, form *checkout.Form) (*model.Order, error) {
	form.Normalize()
	if err := form.Validate(uc.validate); err != nil {
		return nil, err
	}

	c, err := uc.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, checkout.ErrEmptyCart
	}

	summary := c.Summary()
	o := &model.Order{
		Status:          model.OrderStatusPending,
		Email:           form.Email,
		Phone:           form.Phone,
		ShippingAddress: form.Address(),
		Items:           make(model.OrderItems, 0, len(c.Items)),
		Subtotal:        summary.Subtotal,
		Shipping:        summary.Shipping,
		Tax:             summary.Tax,
		Total:           summary.Total,
		PaymentMethod:   checkout.PaymentPayLater,
	}
	if userID := auth.GetUserID(ctx); userID != "" {
		o.UserID = &userID
	}
	for _, it := range c.Items {
		o.Items = append(o.Items, model.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			ImageURL:  it.ImageURL,
			Size:      it.Size,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if err := uc.orders.Create(ctx, o); err != nil {
		uc.logger.Error("failed to create order", zap.String("cart_id", cartID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("total", o.Total.StringFixed(2)),
		zap.Int("items", len(o.Items)),
	)

	if err := uc.carts.Delete(ctx, cartID); err != nil {
		uc.logger.Error("failed to clear cart after checkout", zap.String("cart_id", cartID), zap.Error(err))
	}

	msg, err := mail.OrderConfirmation(o)
	if err == nil {
		err = uc.mailer.Send(ctx, msg)
	}
	if err != nil {
		uc.logger.Error("failed to send order confirmation", zap.String("order_id", o.ID), zap.Error(err))
	}

	return o, nil
}
