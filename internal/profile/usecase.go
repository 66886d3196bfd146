package profile

import (
	"context"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/model"
)

var ErrSavedItemNotFound = fmt.Errorf("saved item %w", apperror.ErrNotFound)

type UseCase interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, form *Form) (*model.Profile, error)

	ListSavedItems(ctx context.Context) ([]model.Product, error)
	SaveItem(ctx context.Context, productID string) error
	RemoveSavedItem(ctx context.Context, productID string) error
}
