package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/product"
	"github.com/fekuna/frameshop-storefront/internal/profile"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type profileUseCase struct {
	repo     profile.Repository
	products product.UseCase
	validate *validator.Validate
	logger   logger.ZapLogger
}

func NewProfileUseCase(repo profile.Repository, products product.UseCase, log logger.ZapLogger) profile.UseCase {
	return &profileUseCase{
		repo:     repo,
		products: products,
		validate: validator.New(),
		logger:   log,
	}
}

// GetProfile returns the stored profile, or one seeded from the session when
// the customer has never saved theirs.
func (uc *profileUseCase) GetProfile(ctx context.Context) (*model.Profile, error) {
	s, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	p, err := uc.repo.FindProfile(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &model.Profile{ID: s.UserID, Email: s.Email}, nil
	}
	return p, nil
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, form *profile.Form) (*model.Profile, error) {
	s, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	form.Normalize()
	if err := form.Validate(uc.validate); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindProfile(ctx, s.UserID)
	if err != nil {
		return nil, err
	}

	p := &model.Profile{
		ID:        s.UserID,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
		Address:   form.Address,
	}
	if err := uc.repo.SaveProfile(ctx, p, existing != nil); err != nil {
		return nil, err
	}
	return p, nil
}

// ListSavedItems resolves saved items to products, skipping any that are no
// longer on sale.
func (uc *profileUseCase) ListSavedItems(ctx context.Context) ([]model.Product, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrUnauthenticated
	}
	items, err := uc.repo.FindSaved(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(items))
	for _, it := range items {
		p, err := uc.products.GetProduct(ctx, it.ProductID)
		if errors.Is(err, apperror.ErrNotFound) {
			uc.logger.Debug("saved product unavailable", zap.String("product_id", it.ProductID))
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// SaveItem is idempotent.
func (uc *profileUseCase) SaveItem(ctx context.Context, productID string) error {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return auth.ErrUnauthenticated
	}
	if _, err := uc.products.GetProduct(ctx, productID); err != nil {
		return err
	}

	existing, err := uc.repo.FindSavedItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return uc.repo.CreateSaved(ctx, &model.SavedItem{UserID: userID, ProductID: productID})
}

func (uc *profileUseCase) RemoveSavedItem(ctx context.Context, productID string) error {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return auth.ErrUnauthenticated
	}
	existing, err := uc.repo.FindSavedItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return profile.ErrSavedItemNotFound
	}
	return uc.repo.DeleteSaved(ctx, existing.ID)
}
