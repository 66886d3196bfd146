package category

import (
	"context"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/category/dto"
	"github.com/fekuna/frameshop-storefront/internal/model"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", apperror.ErrNotFound)
	ErrSlugTaken        = fmt.Errorf("category slug already exists: %w", apperror.ErrConflict)
)

type UseCase interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	CreateCategory(ctx context.Context, form *dto.CategoryForm) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, form *dto.CategoryForm) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
