package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/profile"
)

const fieldProductID = "product_id"

type profileRepository struct {
	client backend.Client
}

func NewProfileRepository(client backend.Client) profile.Repository {
	return &profileRepository{client: client}
}

func (r *profileRepository) FindProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.client.Get(ctx, catalog.CollectionProfiles, userID, &p)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile %s: %w", userID, err)
	}
	return &p, nil
}

// SaveProfile inserts the row on first save and patches it afterwards.
func (r *profileRepository) SaveProfile(ctx context.Context, p *model.Profile, exists bool) error {
	row := map[string]interface{}{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"phone":      p.Phone,
		"address":    p.Address,
	}

	var saved model.Profile
	var err error
	if exists {
		err = r.client.Update(ctx, catalog.CollectionProfiles, p.ID, row, &saved)
	} else {
		row[catalog.FieldID] = p.ID
		err = r.client.Insert(ctx, catalog.CollectionProfiles, row, &saved)
	}
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	*p = saved
	return nil
}

func (r *profileRepository) FindSaved(ctx context.Context, userID string) ([]model.SavedItem, error) {
	q := catalog.NewQuery(catalog.CollectionSavedItems).
		Where(catalog.Eq(catalog.FieldUserID, userID)).
		OrderBy(catalog.Desc(catalog.FieldCreatedAt))

	var items []model.SavedItem
	if err := r.client.Select(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *profileRepository) FindSavedItem(ctx context.Context, userID, productID string) (*model.SavedItem, error) {
	q := catalog.NewQuery(catalog.CollectionSavedItems).
		Where(catalog.Eq(catalog.FieldUserID, userID), catalog.Eq(fieldProductID, productID)).
		Page(1, 0)

	var items []model.SavedItem
	if err := r.client.Select(ctx, q, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *profileRepository) CreateSaved(ctx context.Context, item *model.SavedItem) error {
	row := map[string]interface{}{
		catalog.FieldUserID: item.UserID,
		fieldProductID:      item.ProductID,
	}
	var created model.SavedItem
	if err := r.client.Insert(ctx, catalog.CollectionSavedItems, row, &created); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	*item = created
	return nil
}

func (r *profileRepository) DeleteSaved(ctx context.Context, id string) error {
	return r.client.Delete(ctx, catalog.CollectionSavedItems, id)
}
