package handler

import (
	"net/http"

	"github.com/fekuna/frameshop-storefront/internal/category"
	"github.com/fekuna/frameshop-storefront/internal/category/dto"
	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/categories")
	g.GET("", h.ListCategories)
	g.GET("/:slug", h.GetCategory)
}

func (h *CategoryHandler) RegisterAdminRoutes(r gin.IRouter) {
	g := r.Group("/categories")
	g.POST("", h.CreateCategory)
	g.PUT("/:id", h.UpdateCategory)
	g.DELETE("/:id", h.DeleteCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "categories", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	cat, err := h.uc.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "category", cat)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var form dto.CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &form)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusCreated, "category created", cat)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var form dto.CategoryForm
	if err := c.ShouldBindJSON(&form); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.uc.UpdateCategory(c.Request.Context(), c.Param("id"), &form)
	if err != nil {
		h.logger.Error("failed to update category", zap.String("category_id", c.Param("id")), zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "category updated", cat)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.uc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "category deleted", nil)
}
