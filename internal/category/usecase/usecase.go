package usecase

import (
	"context"

	"github.com/fekuna/frameshop-storefront/internal/category"
	"github.com/fekuna/frameshop-storefront/internal/category/dto"
	"github.com/fekuna/frameshop-storefront/internal/events"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo      category.Repository
	publisher events.Publisher
	validate  *validator.Validate
	logger    logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, publisher events.Publisher, log logger.ZapLogger) category.UseCase {
	v := validator.New()
	if err := dto.RegisterValidations(v); err != nil {
		panic(err)
	}
	return &categoryUseCase{
		repo:      repo,
		publisher: publisher,
		validate:  v,
		logger:    log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *categoryUseCase) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	c, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, category.ErrCategoryNotFound
	}
	return c, nil
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, form *dto.CategoryForm) (*model.Category, error) {
	form.Normalize()
	if err := form.Validate(uc.validate); err != nil {
		return nil, err
	}
	if err := uc.ensureSlugFree(ctx, form.Slug, ""); err != nil {
		return nil, err
	}

	c := &model.Category{}
	applyForm(c, form)
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	uc.publish(ctx, events.CategoryCreated, c.ID)
	return c, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, id string, form *dto.CategoryForm) (*model.Category, error) {
	form.Normalize()
	if err := form.Validate(uc.validate); err != nil {
		return nil, err
	}

	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, category.ErrCategoryNotFound
	}
	if c.Slug != form.Slug {
		if err := uc.ensureSlugFree(ctx, form.Slug, c.ID); err != nil {
			return nil, err
		}
	}

	applyForm(c, form)
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	uc.publish(ctx, events.CategoryUpdated, c.ID)
	return c, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return category.ErrCategoryNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, events.CategoryDeleted, id)
	return nil
}

func (uc *categoryUseCase) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := uc.repo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return category.ErrSlugTaken
	}
	return nil
}

func (uc *categoryUseCase) publish(ctx context.Context, eventType, id string) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, events.NewCatalogChanged(eventType, id)); err != nil {
		uc.logger.Error("failed to publish catalog event",
			zap.String("event_type", eventType),
			zap.String("category_id", id),
			zap.Error(err),
		)
	}
}

func applyForm(c *model.Category, form *dto.CategoryForm) {
	c.Name = form.Name
	c.Slug = form.Slug
	c.DisplayOrder = form.DisplayOrder
	c.Description = nil
	if form.Description != "" {
		d := form.Description
		c.Description = &d
	}
}
