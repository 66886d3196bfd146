package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/backend/memory"
	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/internal/cart/store"
	"github.com/fekuna/frameshop-storefront/internal/product"
	productrepo "github.com/fekuna/frameshop-storefront/internal/product/repository"
	productuc "github.com/fekuna/frameshop-storefront/internal/product/usecase"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	geometricID = "a3e5c7d1-0000-4000-8000-000000000001"
	botanicalID = "a3e5c7d1-0000-4000-8000-000000000002"
)

func newUseCase(t *testing.T) cart.UseCase {
	t.Helper()
	log := logger.NewNop()
	products := productuc.NewProductUseCase(productrepo.NewProductRepository(memory.NewWithFixture()), nil, nil, nil, log)
	return NewCartUseCase(store.NewMemoryStore(time.Hour), products, log)
}

func TestAddItemPricesFromCatalog(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	v, err := uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: geometricID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "Modern Geometric Frame", v.Items[0].Name)
	assert.Equal(t, "Medium (16x20)", v.Items[0].Size)
	assert.Equal(t, "89.99", v.Items[0].Price.StringFixed(2))
	assert.NotEmpty(t, v.Items[0].ImageURL)

	v, err = uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: botanicalID, Size: "large", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "Large (24x36)", v.Items[1].Size)
	assert.Equal(t, "129.99", v.Items[1].Price.StringFixed(2))

	assert.Equal(t, 3, v.Count)
	assert.Equal(t, "309.97", v.Summary.Subtotal.StringFixed(2))
	assert.True(t, v.Summary.Shipping.IsZero())
}

func TestAddItemMergesSameSize(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: botanicalID, Size: "Medium"})
	require.NoError(t, err)
	v, err := uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: botanicalID, Size: "Medium (16x20)", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 3, v.Items[0].Quantity)
}

func TestAddItemRejects(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: "missing"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	_, err = uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: geometricID, Size: "Poster"})
	assert.ErrorIs(t, err, ErrUnknownSize)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	v, err := uc.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, v.Empty())
}

func TestQuantityRemoveAndClear(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: geometricID, Quantity: 1})
	require.NoError(t, err)

	v, err := uc.UpdateQuantity(ctx, "c1", geometricID, "Medium (16x20)", -5)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Items[0].Quantity)
	assert.Equal(t, "15", v.Summary.Shipping.String())

	_, err = uc.UpdateQuantity(ctx, "c1", geometricID, "Small (8x10)", 1)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	v, err = uc.RemoveItem(ctx, "c1", geometricID, "Medium (16x20)")
	require.NoError(t, err)
	assert.True(t, v.Empty())

	_, err = uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: geometricID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, uc.Clear(ctx, "c1"))
	v, err = uc.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Count)
}

func TestCartsAreIsolated(t *testing.T) {
	uc := newUseCase(t)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, "c1", cart.AddItemInput{ProductID: geometricID})
	require.NoError(t, err)

	v, err := uc.GetCart(ctx, "c2")
	require.NoError(t, err)
	assert.True(t, v.Empty())
}
