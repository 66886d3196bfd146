package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/product"
)

type productRepository struct {
	client backend.Client
}

func NewProductRepository(client backend.Client) product.Repository {
	return &productRepository{client: client}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	var created model.Product
	if err := r.client.Insert(ctx, catalog.CollectionProducts, productRow(p), &created); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	*p = created
	return nil
}

// FindByID returns nil, nil when no product has the id.
func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.client.Get(ctx, catalog.CollectionProducts, id, &p)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &p, nil
}

// FindAll runs q and reports the number of matching rows before paging.
func (r *productRepository) FindAll(ctx context.Context, q catalog.Query) ([]model.Product, int, error) {
	var products []model.Product
	if err := r.client.Select(ctx, q, &products); err != nil {
		return nil, 0, err
	}
	if products == nil {
		products = []model.Product{}
	}

	total := len(products)
	if q.Limit > 0 || q.Offset > 0 {
		count := q.Page(0, 0)
		count.Columns = []string{catalog.FieldID}
		count.Orderings = nil
		var ids []struct {
			ID string `json:"id"`
		}
		if err := r.client.Select(ctx, count, &ids); err != nil {
			return nil, 0, err
		}
		total = len(ids)
	}
	return products, total, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	var updated model.Product
	if err := r.client.Update(ctx, catalog.CollectionProducts, p.ID, productRow(p), &updated); err != nil {
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	*p = updated
	return nil
}

func (r *productRepository) Patch(ctx context.Context, id string, fields map[string]interface{}) (*model.Product, error) {
	var updated model.Product
	err := r.client.Update(ctx, catalog.CollectionProducts, id, fields, &updated)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patch product %s: %w", id, err)
	}
	return &updated, nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, catalog.CollectionProducts, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// productRow holds the writable columns; id and timestamps are left to the backend.
func productRow(p *model.Product) map[string]interface{} {
	row := map[string]interface{}{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"image_url":   p.ImageURL,
		"material":    p.Material,
		"dimensions":  p.Dimensions,
		"stock":       p.Stock,
		"is_active":   p.IsActive,
		"is_featured": p.IsFeatured,
	}
	if p.ID != "" {
		row[catalog.FieldID] = p.ID
	}
	return row
}
