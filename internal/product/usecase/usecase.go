package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/events"
	"github.com/fekuna/frameshop-storefront/internal/media"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/product"
	"github.com/fekuna/frameshop-storefront/internal/product/dto"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/fekuna/frameshop-storefront/pkg/search"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const indexName = "products"

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category_id": { "type": "keyword" },
			"material": { "type": "keyword" },
			"dimensions": { "type": "keyword" },
			"price": { "type": "double" },
			"is_active": { "type": "boolean" },
			"is_featured": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

// sizeTable is the frame size price list shown on the product page.
var sizeTable = []model.SizeOption{
	{ID: "small", Name: "Small", Dimensions: "8x10", Price: decimal.RequireFromString("69.99")},
	{ID: "medium", Name: "Medium", Dimensions: "16x20", Price: decimal.RequireFromString("89.99")},
	{ID: "large", Name: "Large", Dimensions: "24x36", Price: decimal.RequireFromString("129.99")},
}

type productUseCase struct {
	repo      product.Repository
	es        *search.Client
	media     media.Uploader
	publisher events.Publisher
	validate  *validator.Validate
	logger    logger.ZapLogger
}

// NewProductUseCase wires the product operations. es may be nil, in which
// case search falls back to a name match on the backend.
func NewProductUseCase(repo product.Repository, es *search.Client, uploader media.Uploader, publisher events.Publisher, log logger.ZapLogger) product.UseCase {
	if uploader == nil {
		uploader = media.Disabled{}
	}
	return &productUseCase{
		repo:      repo,
		es:        es,
		media:     uploader,
		publisher: publisher,
		validate:  validator.New(),
		logger:    log,
	}
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := catalog.ComposeProducts(filters.FilterState())
	if term := strings.TrimSpace(filters.SearchQuery); term != "" {
		q = q.Where(catalog.Contains("name", term))
	}
	if filters.PageSize > 0 {
		q = q.Page(filters.PageSize, filters.Offset())
	}
	return uc.repo.FindAll(ctx, q)
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (uc *productUseCase) SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if strings.TrimSpace(filters.SearchQuery) == "" {
		return uc.ListProducts(ctx, filters)
	}

	if uc.es != nil {
		products, total, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, total, nil
		}
		// If ES fails, fall through to the backend
		uc.logger.Error("ES search failed, falling back to backend", zap.Error(err))
	}

	return uc.ListProducts(ctx, filters)
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	res, err := uc.es.Search(ctx, indexName, searchQuery(filters))
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			return nil, 0, fmt.Errorf("decode search hit %s: %w", hit.ID, err)
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) SizeOptions(ctx context.Context, id string) ([]model.SizeOption, error) {
	if _, err := uc.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	out := make([]model.SizeOption, len(sizeTable))
	copy(out, sizeTable)
	return out, nil
}

func (uc *productUseCase) ListAllProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := catalog.NewQuery(catalog.CollectionProducts)
	if !filters.IncludeInactive {
		q = q.Where(catalog.Eq(catalog.FieldActive, true))
	}
	if len(filters.Categories) > 0 {
		q = q.Where(catalog.In(catalog.FieldCategoryID, filters.Categories...))
	}
	if term := strings.TrimSpace(filters.SearchQuery); term != "" {
		q = q.Where(catalog.Contains("name", term))
	}
	q = q.OrderBy(catalog.Desc(catalog.FieldCreatedAt))
	if filters.PageSize > 0 {
		q = q.Page(filters.PageSize, filters.Offset())
	}
	return uc.repo.FindAll(ctx, q)
}

func (uc *productUseCase) CreateProduct(ctx context.Context, form *dto.ProductForm) (*model.Product, error) {
	form.Normalize()
	if err := form.Validate(uc.validate); err != nil {
		return nil, err
	}

	p := &model.Product{}
	applyForm(p, form)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.publish(ctx, events.ProductCreated, p.ID)
	go uc.syncToElastic(context.Background(), *p)

	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, form *dto.ProductForm) (*model.Product, error) {
	form.Normalize()
	if err := form.Validate(uc.validate); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}

	applyForm(p, form)
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.publish(ctx, events.ProductUpdated, p.ID)
	go uc.syncToElastic(context.Background(), *p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, events.ProductDeleted, id)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) SetActive(ctx context.Context, id string, active bool) (*model.Product, error) {
	return uc.patch(ctx, id, map[string]interface{}{catalog.FieldActive: active})
}

func (uc *productUseCase) SetFeatured(ctx context.Context, id string, featured bool) (*model.Product, error) {
	return uc.patch(ctx, id, map[string]interface{}{catalog.FieldFeatured: featured})
}

func (uc *productUseCase) UploadImage(ctx context.Context, id string, file io.Reader, filename string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}

	url, err := uc.media.UploadImage(ctx, file, "product-"+id)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("product image uploaded", zap.String("product_id", id), zap.String("filename", filename), zap.String("url", url))

	return uc.patch(ctx, id, map[string]interface{}{"image_url": url})
}

// Reindex rebuilds the search index from every product in the backend.
func (uc *productUseCase) Reindex(ctx context.Context) (int, error) {
	if uc.es == nil {
		return 0, product.ErrSearchDisabled
	}
	products, _, err := uc.repo.FindAll(ctx, catalog.NewQuery(catalog.CollectionProducts))
	if err != nil {
		return 0, err
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		return 0, err
	}
	for _, p := range products {
		if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
			return 0, err
		}
	}
	return len(products), nil
}

func (uc *productUseCase) patch(ctx context.Context, id string, fields map[string]interface{}) (*model.Product, error) {
	p, err := uc.repo.Patch(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrProductNotFound
	}

	uc.publish(ctx, events.ProductUpdated, p.ID)
	go uc.syncToElastic(context.Background(), *p)

	return p, nil
}

// publish never fails the mutation that caused the event.
func (uc *productUseCase) publish(ctx context.Context, eventType, id string) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, events.NewCatalogChanged(eventType, id)); err != nil {
		uc.logger.Error("failed to publish catalog event",
			zap.String("event_type", eventType),
			zap.String("product_id", id),
			zap.Error(err),
		)
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p model.Product) {
	if uc.es == nil {
		return
	}
	// Lazily create the index so a fresh cluster works without a migration step.
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func applyForm(p *model.Product, form *dto.ProductForm) {
	p.Name = form.Name
	p.Description = optional(form.Description)
	p.Price = form.Price
	p.CategoryID = optional(form.CategoryID)
	p.Material = optional(form.Material)
	p.Dimensions = optional(form.Dimensions)
	p.ImageURL = optional(form.ImageURL)
	p.Stock = form.Stock
	p.IsActive = form.IsActive
	p.IsFeatured = form.IsFeatured
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
