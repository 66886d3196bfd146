package checkout

import (
	"context"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/model"
)

// PaymentPayLater is the only payment method offered; nothing is captured.
const PaymentPayLater = "pay_later"

var ErrEmptyCart = fmt.Errorf("cart is empty: %w", apperror.ErrInvalidInput)

type UseCase interface {
	PlaceOrder(ctx context.Context, cartID string, form *Form) (*model.Order, error)
}
