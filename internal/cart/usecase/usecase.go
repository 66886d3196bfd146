package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/product"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"go.uber.org/zap"
)

var ErrUnknownSize = fmt.Errorf("unknown frame size: %w", apperror.ErrInvalidInput)

type cartUseCase struct {
	store    cart.Store
	products product.UseCase
	logger   logger.ZapLogger
}

func NewCartUseCase(store cart.Store, products product.UseCase, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		store:    store,
		products: products,
		logger:   log,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, id string) (cart.View, error) {
	c, err := uc.store.Load(ctx, id)
	if err != nil {
		return cart.View{}, err
	}
	return cart.NewView(c), nil
}

// AddItem prices the line from the catalog, never from the caller. A size
// picks its price from the product's size options; no size uses the list price.
func (uc *cartUseCase) AddItem(ctx context.Context, id string, input cart.AddItemInput) (cart.View, error) {
	p, err := uc.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return cart.View{}, err
	}

	item := model.CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: input.Quantity,
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.Dimensions != nil {
		item.Size = *p.Dimensions
	}

	if size := strings.TrimSpace(input.Size); size != "" {
		options, err := uc.products.SizeOptions(ctx, p.ID)
		if err != nil {
			return cart.View{}, err
		}
		opt, ok := matchSize(options, size)
		if !ok {
			return cart.View{}, ErrUnknownSize
		}
		item.Size = Label(opt)
		item.Price = opt.Price
	}

	return uc.mutate(ctx, id, func(c *cart.Cart) error {
		c.Add(item)
		return nil
	})
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, id, productID, size string, change int) (cart.View, error) {
	return uc.mutate(ctx, id, func(c *cart.Cart) error {
		return c.UpdateQuantity(productID, size, change)
	})
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, id, productID, size string) (cart.View, error) {
	return uc.mutate(ctx, id, func(c *cart.Cart) error {
		return c.Remove(productID, size)
	})
}

func (uc *cartUseCase) Clear(ctx context.Context, id string) error {
	if err := uc.store.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to clear cart", zap.String("cart_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (uc *cartUseCase) mutate(ctx context.Context, id string, fn func(*cart.Cart) error) (cart.View, error) {
	c, err := uc.store.Load(ctx, id)
	if err != nil {
		return cart.View{}, err
	}
	if err := fn(c); err != nil {
		return cart.View{}, err
	}
	if err := uc.store.Save(ctx, c); err != nil {
		uc.logger.Error("failed to save cart", zap.String("cart_id", id), zap.Error(err))
		return cart.View{}, err
	}
	return cart.NewView(c), nil
}

// Label renders a size option the way the shop's size filter names it.
func Label(o model.SizeOption) string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Dimensions)
}

func matchSize(options []model.SizeOption, size string) (model.SizeOption, bool) {
	for _, o := range options {
		if strings.EqualFold(o.ID, size) || strings.EqualFold(o.Name, size) || Label(o) == size {
			return o, true
		}
	}
	return model.SizeOption{}, false
}
