package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/frameshop-storefront/internal/backend"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/category"
	"github.com/fekuna/frameshop-storefront/internal/model"
)

type categoryRepository struct {
	client backend.Client
}

func NewCategoryRepository(client backend.Client) category.Repository {
	return &categoryRepository{client: client}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	var created model.Category
	if err := r.client.Insert(ctx, catalog.CollectionCategories, categoryRow(c), &created); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	*c = created
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	err := r.client.Get(ctx, catalog.CollectionCategories, id, &c)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category %s: %w", id, err)
	}
	return &c, nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	q := catalog.NewQuery(catalog.CollectionCategories).
		Where(catalog.Eq(catalog.FieldSlug, slug)).
		Page(1, 0)

	var categories []model.Category
	if err := r.client.Select(ctx, q, &categories); err != nil {
		return nil, fmt.Errorf("find category by slug %q: %w", slug, err)
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return &categories[0], nil
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.client.Select(ctx, catalog.CategoriesQuery(), &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	var updated model.Category
	err := r.client.Update(ctx, catalog.CollectionCategories, c.ID, categoryRow(c), &updated)
	if err != nil {
		return fmt.Errorf("update category %s: %w", c.ID, err)
	}
	*c = updated
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, catalog.CollectionCategories, id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	return nil
}

func categoryRow(c *model.Category) map[string]interface{} {
	return map[string]interface{}{
		"name":          c.Name,
		"slug":          c.Slug,
		"description":   c.Description,
		"display_order": c.DisplayOrder,
	}
}
