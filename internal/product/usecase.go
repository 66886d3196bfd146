package product

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fekuna/frameshop-storefront/internal/apperror"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/product/dto"
)

var (
	ErrProductNotFound = fmt.Errorf("product %w", apperror.ErrNotFound)
	ErrSearchDisabled  = errors.New("product search index is not configured")
)

type UseCase interface {
	// Storefront
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SizeOptions(ctx context.Context, id string) ([]model.SizeOption, error)

	// Admin
	ListAllProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	CreateProduct(ctx context.Context, form *dto.ProductForm) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, form *dto.ProductForm) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (*model.Product, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*model.Product, error)
	UploadImage(ctx context.Context, id string, file io.Reader, filename string) (*model.Product, error)
	Reindex(ctx context.Context) (int, error)
}
