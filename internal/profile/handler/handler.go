package handler

import (
	"net/http"

	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/internal/profile"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	uc     profile.UseCase
	logger logger.ZapLogger
}

func NewProfileHandler(uc profile.UseCase, log logger.ZapLogger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: log,
	}
}

// RegisterRoutes expects r to require an authenticated user.
func (h *ProfileHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)

	g := r.Group("/saved-items")
	g.GET("", h.ListSavedItems)
	g.PUT("/:productID", h.SaveItem)
	g.DELETE("/:productID", h.RemoveSavedItem)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.uc.GetProfile(c.Request.Context())
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "profile", p)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var form profile.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.uc.UpdateProfile(c.Request.Context(), &form)
	if err != nil {
		h.logger.Error("failed to update profile", zap.Error(err))
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "profile updated", p)
}

func (h *ProfileHandler) ListSavedItems(c *gin.Context) {
	products, err := h.uc.ListSavedItems(c.Request.Context())
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "saved items", products)
}

func (h *ProfileHandler) SaveItem(c *gin.Context) {
	if err := h.uc.SaveItem(c.Request.Context(), c.Param("productID")); err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "item saved", nil)
}

func (h *ProfileHandler) RemoveSavedItem(c *gin.Context) {
	if err := h.uc.RemoveSavedItem(c.Request.Context(), c.Param("productID")); err != nil {
		delivery.HandleError(c, err)
		return
	}
	delivery.SuccessResponse(c, http.StatusOK, "item removed", nil)
}
