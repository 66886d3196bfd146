package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/internal/order"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes expects r to require an authenticated user.
func (h *OrderHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/orders")
	g.GET("", h.ListMyOrders)
	g.GET("/:id", h.GetMyOrder)
}

func (h *OrderHandler) RegisterAdminRoutes(r gin.IRouter) {
	r.GET("/overview", h.Overview)
	g := r.Group("/orders")
	g.GET("", h.ListOrders)
	g.PUT("/:id/status", h.UpdateStatus)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.uc.ListMyOrders(c.Request.Context())
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "orders", orders)
}

func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	o, err := h.uc.GetMyOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "order", o)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	orders, err := h.uc.ListOrders(c.Request.Context(), model.OrderStatus(c.Query("status")), page, pageSize)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "orders", orders)
}

type statusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.logger.Error("failed to update order status", zap.String("order_id", c.Param("id")), zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "order updated", o)
}

func (h *OrderHandler) Overview(c *gin.Context) {
	ov, err := h.uc.Overview(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to build overview", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "overview", ov)
}
