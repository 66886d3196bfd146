package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/catalog"
	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/internal/shop"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ShopHandler struct {
	registry  *shop.Registry
	logger    logger.ZapLogger
	heartbeat time.Duration
}

func NewShopHandler(registry *shop.Registry, log logger.ZapLogger) *ShopHandler {
	return &ShopHandler{registry: registry, logger: log, heartbeat: 15 * time.Second}
}

func (h *ShopHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/shop")
	g.GET("/options", h.Options)
	g.POST("/views", h.OpenView)

	v := g.Group("/views/:id")
	v.GET("", h.GetView)
	v.DELETE("", h.CloseView)
	v.POST("/toggle", h.Toggle)
	v.PUT("/price", h.SetPrice)
	v.PUT("/sort", h.SetSort)
	v.POST("/reset", h.Reset)
	v.POST("/refresh", h.Refresh)
	v.GET("/events", h.Events)
}

type viewResponse struct {
	shop.Snapshot
	Notifications []shop.Notification `json:"notifications"`
}

type optionsResponse struct {
	Materials []string           `json:"materials"`
	Sizes     []string           `json:"sizes"`
	Price     catalog.PriceRange `json:"price"`
	PriceStep int                `json:"price_step"`
	SortKeys  []catalog.SortKey  `json:"sort_keys"`
}

func (h *ShopHandler) Options(c *gin.Context) {
	delivery.SuccessResponse(c, http.StatusOK, "shop options", optionsResponse{
		Materials: catalog.Materials,
		Sizes:     catalog.Sizes,
		Price:     catalog.FullPriceRange(),
		PriceStep: 10,
		SortKeys:  []catalog.SortKey{catalog.SortPopularity, catalog.SortNewest, catalog.SortPriceLow, catalog.SortPriceHigh},
	})
}

func (h *ShopHandler) OpenView(c *gin.Context) {
	s, _ := auth.SessionFromGin(c)
	v := h.registry.Open(s)
	h.logger.Info("shop view opened", zap.String("view_id", v.ID()))
	c.Header("Location", "/shop/views/"+v.ID())
	h.respond(c, http.StatusCreated, v)
}

// GetView returns the current state and drains pending notifications.
func (h *ShopHandler) GetView(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusOK, v)
}

func (h *ShopHandler) CloseView(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	if err := h.registry.CloseView(v.ID()); err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "view closed", nil)
}

type toggleRequest struct {
	Dimension string `json:"dimension" binding:"required,oneof=category material size"`
	Value     string `json:"value" binding:"required"`
}

func (h *ShopHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.update(c, func(f *catalog.FilterState) { f.Toggle(req.Dimension, req.Value) })
}

type priceRequest struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func (h *ShopHandler) SetPrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.update(c, func(f *catalog.FilterState) { f.SetPriceRange(req.Min, req.Max) })
}

type sortRequest struct {
	Sort string `json:"sort" binding:"required"`
}

func (h *ShopHandler) SetSort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.update(c, func(f *catalog.FilterState) { f.SetSort(catalog.SortKey(req.Sort)) })
}

func (h *ShopHandler) Reset(c *gin.Context) {
	h.update(c, func(f *catalog.FilterState) { f.Reset() })
}

func (h *ShopHandler) Refresh(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	h.await(c, v.Refresh())
	h.respond(c, http.StatusOK, v)
}

// Events streams a snapshot after every state change, followed by any
// notifications raised by it.
func (h *ShopHandler) Events(c *gin.Context) {
	v, ok := h.view(c)
	if !ok {
		return
	}

	updates := make(chan shop.Snapshot, 1)
	sub := v.Subscribe(func(s shop.Snapshot) {
		for {
			select {
			case updates <- s:
				return
			default:
				// keep only the newest snapshot
				select {
				case <-updates:
				default:
				}
			}
		}
	})
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.SSEvent("snapshot", v.Snapshot())
	c.Writer.Flush()

	inbox := h.registry.Inbox()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case s := <-updates:
			c.SSEvent("snapshot", s)
			for _, n := range inbox.Drain(v.ID()) {
				c.SSEvent("notification", n)
			}
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		}
	})
}

func (h *ShopHandler) update(c *gin.Context, fn func(f *catalog.FilterState)) {
	v, ok := h.view(c)
	if !ok {
		return
	}
	h.await(c, v.Update(fn))
	h.respond(c, http.StatusOK, v)
}

// await blocks on the fetch when the caller asked for ?wait=true, for clients
// that poll instead of streaming.
func (h *ShopHandler) await(c *gin.Context, done <-chan struct{}) {
	if c.Query("wait") != "true" {
		return
	}
	select {
	case <-done:
	case <-c.Request.Context().Done():
	}
}

func (h *ShopHandler) view(c *gin.Context) (*shop.View, bool) {
	v, err := h.registry.Get(c.Param("id"))
	if err != nil {
		delivery.HandleError(c, err)
		return nil, false
	}
	if owner := v.Owner(); owner != "" {
		s, ok := auth.SessionFromGin(c)
		if !ok || s.UserID != owner {
			delivery.HandleError(c, auth.ErrForbidden)
			return nil, false
		}
	}
	return v, true
}

func (h *ShopHandler) respond(c *gin.Context, status int, v *shop.View) {
	delivery.SuccessResponse(c, status, "shop view", viewResponse{
		Snapshot:      v.Snapshot(),
		Notifications: h.registry.Inbox().Drain(v.ID()),
	})
}
