package profile

import (
	"context"

	"github.com/fekuna/frameshop-storefront/internal/model"
)

type Repository interface {
	FindProfile(ctx context.Context, userID string) (*model.Profile, error)
	SaveProfile(ctx context.Context, p *model.Profile, exists bool) error

	FindSaved(ctx context.Context, userID string) ([]model.SavedItem, error)
	FindSavedItem(ctx context.Context, userID, productID string) (*model.SavedItem, error)
	CreateSaved(ctx context.Context, item *model.SavedItem) error
	DeleteSaved(ctx context.Context, id string) error
}
