package handler

import (
	"net/http"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	verifier *auth.Verifier
	hub      *auth.Hub
	logger   logger.ZapLogger
}

func NewAuthHandler(verifier *auth.Verifier, hub *auth.Hub, log logger.ZapLogger) *AuthHandler {
	return &AuthHandler{verifier: verifier, hub: hub, logger: log}
}

// RegisterRoutes expects the group to run auth.Authenticate already.
func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/auth", auth.RequireUser())
	g.GET("/session", h.GetSession)
	g.POST("/sign-out", h.SignOut)
	g.POST("/refresh", h.Refresh)
}

func (h *AuthHandler) GetSession(c *gin.Context) {
	s, _ := auth.SessionFromGin(c)
	delivery.SuccessResponse(c, http.StatusOK, "session", s)
}

// SignOut notifies every component holding the user's session. The token
// itself is revoked by the backend's auth service, not here.
func (h *AuthHandler) SignOut(c *gin.Context) {
	s, _ := auth.SessionFromGin(c)
	h.hub.Publish(auth.Event{Kind: auth.EventSignedOut, UserID: s.UserID})
	h.logger.Info("user signed out", zap.String("user_id", s.UserID))
	delivery.SuccessResponse(c, http.StatusOK, "signed out", nil)
}

type refreshRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// Refresh swaps in a newly issued access token for live subscribers.
func (h *AuthHandler) Refresh(c *gin.Context) {
	current, _ := auth.SessionFromGin(c)

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		delivery.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	next, err := h.verifier.Verify(c.Request.Context(), req.AccessToken)
	if err != nil {
		delivery.HandleError(c, err)
		return
	}
	if next.UserID != current.UserID {
		delivery.HandleError(c, auth.ErrForbidden)
		return
	}

	h.hub.Publish(auth.Event{Kind: auth.EventTokenRefreshed, UserID: next.UserID, Session: next})
	if next.IsAdmin != current.IsAdmin {
		h.hub.Publish(auth.Event{Kind: auth.EventRoleChanged, UserID: next.UserID, Session: next})
	}
	delivery.SuccessResponse(c, http.StatusOK, "session refreshed", next)
}
