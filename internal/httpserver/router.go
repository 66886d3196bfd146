// Package httpserver assembles the storefront's HTTP API.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/delivery"
	"github.com/fekuna/frameshop-storefront/pkg/cache"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Routes is implemented by handlers serving public or signed-in endpoints.
type Routes interface {
	RegisterRoutes(r gin.IRouter)
}

// AdminRoutes is implemented by handlers with admin-only endpoints.
type AdminRoutes interface {
	RegisterAdminRoutes(r gin.IRouter)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	AllowedOrigins []string
	AdminRateLimit int // requests per minute, 0 disables
}

// Handlers groups the route sets by who may call them.
type Handlers struct {
	Public []Routes
	User   []Routes
	Admin  []AdminRoutes
}

// Deps are the router's collaborators. Redis may be nil, which disables
// admin rate limiting.
type Deps struct {
	Verifier *auth.Verifier
	Backend  Pinger
	Redis    *cache.RedisClient
	Logger   logger.ZapLogger
}

func NewRouter(cfg Config, h Handlers, deps Deps) *gin.Engine {
	log := deps.Logger

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log), Recovery(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderRequestID, "X-Cart-ID"},
		ExposeHeaders:    []string{HeaderRequestID, "X-Cart-ID", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", healthz(deps.Backend, log))

	api := r.Group("/api/v1", auth.Authenticate(deps.Verifier, log))
	for _, routes := range h.Public {
		routes.RegisterRoutes(api)
	}

	me := api.Group("/me", auth.RequireUser())
	for _, routes := range h.User {
		routes.RegisterRoutes(me)
	}

	admin := api.Group("/admin", auth.RequireAdmin())
	if deps.Redis != nil && cfg.AdminRateLimit > 0 {
		admin.Use(RateLimiter(deps.Redis, cfg.AdminRateLimit, time.Minute, log))
	}
	for _, routes := range h.Admin {
		routes.RegisterAdminRoutes(admin)
	}

	r.NoRoute(func(c *gin.Context) {
		delivery.ErrorResponse(c, http.StatusNotFound, "route not found")
	})
	return r
}

func healthz(backend Pinger, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := backend.Ping(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			delivery.ErrorResponse(c, http.StatusServiceUnavailable, "backend unavailable")
			return
		}
		delivery.SuccessResponse(c, http.StatusOK, "ok", nil)
	}
}
