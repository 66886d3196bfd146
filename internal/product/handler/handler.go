package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/internal/media"
	"github.com/fekuna/frameshop-storefront/internal/product"
	"github.com/fekuna/frameshop-storefront/internal/product/dto"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxImageSize bounds multipart image uploads.
const maxImageSize = 10 << 20

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/products")
	g.GET("", h.ListProducts)
	g.GET("/search", h.SearchProducts)
	g.GET("/:id", h.GetProduct)
	g.GET("/:id/sizes", h.SizeOptions)
}

// RegisterAdminRoutes expects r to be guarded by the admin middleware.
func (h *ProductHandler) RegisterAdminRoutes(r gin.IRouter) {
	g := r.Group("/products")
	g.GET("", h.ListAllProducts)
	g.POST("", h.CreateProduct)
	g.PUT("/:id", h.UpdateProduct)
	g.DELETE("/:id", h.DeleteProduct)
	g.PUT("/:id/active", h.SetActive)
	g.PUT("/:id/featured", h.SetFeatured)
	g.POST("/:id/image", h.UploadImage)
	g.POST("/reindex", h.Reindex)
}

// --- Storefront ---

func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "products", delivery.Page{Items: products, Total: count})
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	products, count, err := h.uc.SearchProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to search products", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "products", delivery.Page{Items: products, Total: count})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "product", p)
}

func (h *ProductHandler) SizeOptions(c *gin.Context) {
	sizes, err := h.uc.SizeOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "size options", sizes)
}

// --- Admin ---

func (h *ProductHandler) ListAllProducts(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	filters.IncludeInactive = c.DefaultQuery("include_inactive", "true") == "true"

	products, count, err := h.uc.ListAllProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "products", delivery.Page{Items: products, Total: count})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	form := dto.NewProductForm()
	if err := c.ShouldBindJSON(&form); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &form)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusCreated, "product created", p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	form := dto.NewProductForm()
	if err := c.ShouldBindJSON(&form); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), c.Param("id"), &form)
	if err != nil {
		h.logger.Error("failed to update product", zap.String("product_id", c.Param("id")), zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "product updated", p)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed to delete product", zap.String("product_id", c.Param("id")), zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "product deleted", nil)
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func (h *ProductHandler) SetActive(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.uc.SetActive(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "product updated", p)
}

func (h *ProductHandler) SetFeatured(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.uc.SetFeatured(c.Request.Context(), c.Param("id"), *req.Value)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "product updated", p)
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
	fh, err := c.FormFile("image")
	if err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, "image file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	p, err := h.uc.UploadImage(c.Request.Context(), c.Param("id"), f, fh.Filename)
	if errors.Is(err, media.ErrDisabled) {
		delivery.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to upload product image", zap.String("product_id", c.Param("id")), zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "image uploaded", p)
}

func (h *ProductHandler) Reindex(c *gin.Context) {
	n, err := h.uc.Reindex(c.Request.Context())
	if errors.Is(err, product.ErrSearchDisabled) {
		delivery.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to reindex products", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "products reindexed", gin.H{"indexed": n})
}

func parseFilters(c *gin.Context) (*dto.ProductFilters, error) {
	f := &dto.ProductFilters{
		Categories:  c.QueryArray("category"),
		Materials:   c.QueryArray("material"),
		Sizes:       c.QueryArray("size"),
		Sort:        c.Query("sort"),
		SearchQuery: c.Query("q"),
		Page:        1,
	}

	var err error
	if f.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		return nil, err
	}
	if f.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		return nil, err
	}
	if v := c.Query("page"); v != "" {
		if f.Page, err = strconv.Atoi(v); err != nil || f.Page < 1 {
			return nil, errors.New("page must be a positive integer")
		}
	}
	if v := c.Query("page_size"); v != "" {
		if f.PageSize, err = strconv.Atoi(v); err != nil || f.PageSize < 0 {
			return nil, errors.New("page_size must be a non-negative integer")
		}
	}
	return f, nil
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, errors.New(key + " must be a number")
	}
	return &d, nil
}
