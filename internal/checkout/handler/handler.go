package handler

import (
	"context"
	"net/http"

	carthandler "github.com/fekuna/frameshop-storefront/internal/cart/handler"
	"github.com/fekuna/frameshop-storefront/internal/checkout"
	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileReader supplies the signed-in customer's saved details.
type ProfileReader interface {
	GetProfile(ctx context.Context) (*model.Profile, error)
}

type CheckoutHandler struct {
	uc       checkout.UseCase
	profiles ProfileReader
	logger   logger.ZapLogger
}

// NewCheckoutHandler builds the handler. profiles may be nil.
func NewCheckoutHandler(uc checkout.UseCase, profiles ProfileReader, log logger.ZapLogger) *CheckoutHandler {
	return &CheckoutHandler{
		uc:       uc,
		profiles: profiles,
		logger:   log,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/checkout", carthandler.CartID())
	g.GET("/form", h.Form)
	g.POST("", h.PlaceOrder)
}

// Form returns the checkout form prefilled from the customer's profile.
func (h *CheckoutHandler) Form(c *gin.Context) {
	var form checkout.Form
	h.prefill(c.Request.Context(), &form)
	delivery.SuccessResponse(c, http.StatusOK, "checkout form", form)
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	h.prefill(c.Request.Context(), &form)

	o, err := h.uc.PlaceOrder(c.Request.Context(), carthandler.IDFrom(c), &form)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusCreated, "Order placed successfully!", o)
}

func (h *CheckoutHandler) prefill(ctx context.Context, form *checkout.Form) {
	if h.profiles == nil {
		return
	}
	p, err := h.profiles.GetProfile(ctx)
	if err != nil || p == nil {
		return
	}
	form.Prefill(p)
	h.logger.Debug("checkout form prefilled from profile", zap.String("user_id", p.ID))
}
