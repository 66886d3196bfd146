package handler

import (
	"net/http"

	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderCartID = "X-Cart-ID"
	CookieCartID = "cart_id"

	cookieMaxAge = 7 * 24 * 60 * 60
	cartIDKey    = "cart_id"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CartHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/cart", CartID())
	g.GET("", h.GetCart)
	g.DELETE("", h.Clear)
	g.POST("/items", h.AddItem)
	g.PATCH("/items", h.UpdateQuantity)
	g.DELETE("/items", h.RemoveItem)
}

// CartID resolves the caller's cart id from the X-Cart-ID header or the
// cart cookie, minting one when neither carries a valid id. The id is echoed
// back in both.
func CartID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderCartID)
		if id == "" {
			id, _ = c.Cookie(CookieCartID)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(cartIDKey, id)
		c.Header(HeaderCartID, id)
		c.SetCookie(CookieCartID, id, cookieMaxAge, "/", "", false, true)
		c.Next()
	}
}

// IDFrom returns the cart id resolved by CartID.
func IDFrom(c *gin.Context) string {
	return c.GetString(cartIDKey)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	v, err := h.uc.GetCart(c.Request.Context(), IDFrom(c))
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "cart", v)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.uc.AddItem(c.Request.Context(), IDFrom(c), req)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "Item added to cart", v)
}

type quantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Change    int    `json:"change"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.uc.UpdateQuantity(c.Request.Context(), IDFrom(c), req.ProductID, req.Size, req.Change)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "cart updated", v)
}

type removeRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.uc.RemoveItem(c.Request.Context(), IDFrom(c), req.ProductID, req.Size)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "Item removed from cart", v)
}

func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.uc.Clear(c.Request.Context(), IDFrom(c)); err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "cart cleared", nil)
}
