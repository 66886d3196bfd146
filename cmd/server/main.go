package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/frameshop-storefront/config"
	"github.com/fekuna/frameshop-storefront/internal/auth"
	"github.com/fekuna/frameshop-storefront/internal/backend/driver"
	"github.com/fekuna/frameshop-storefront/internal/cart"
	"github.com/fekuna/frameshop-storefront/internal/events"
	"github.com/fekuna/frameshop-storefront/internal/health"
	"github.com/fekuna/frameshop-storefront/internal/httpserver"
	"github.com/fekuna/frameshop-storefront/internal/mail"
	"github.com/fekuna/frameshop-storefront/internal/media"
	"github.com/fekuna/frameshop-storefront/internal/shop"
	"github.com/fekuna/frameshop-storefront/pkg/broker"
	"github.com/fekuna/frameshop-storefront/pkg/cache"
	"github.com/fekuna/frameshop-storefront/pkg/logger"
	"github.com/fekuna/frameshop-storefront/pkg/search"

	authH "github.com/fekuna/frameshop-storefront/internal/auth/handler"
	shopH "github.com/fekuna/frameshop-storefront/internal/shop/handler"
	shopListenerPkg "github.com/fekuna/frameshop-storefront/internal/shop/listener"

	cartH "github.com/fekuna/frameshop-storefront/internal/cart/handler"
	cartStorePkg "github.com/fekuna/frameshop-storefront/internal/cart/store"
	cartUCPkg "github.com/fekuna/frameshop-storefront/internal/cart/usecase"

	catH "github.com/fekuna/frameshop-storefront/internal/category/handler"
	catRepoPkg "github.com/fekuna/frameshop-storefront/internal/category/repository"
	catUCPkg "github.com/fekuna/frameshop-storefront/internal/category/usecase"

	checkoutH "github.com/fekuna/frameshop-storefront/internal/checkout/handler"
	checkoutUCPkg "github.com/fekuna/frameshop-storefront/internal/checkout/usecase"

	orderH "github.com/fekuna/frameshop-storefront/internal/order/handler"
	orderRepoPkg "github.com/fekuna/frameshop-storefront/internal/order/repository"
	orderUCPkg "github.com/fekuna/frameshop-storefront/internal/order/usecase"

	prodH "github.com/fekuna/frameshop-storefront/internal/product/handler"
	prodRepoPkg "github.com/fekuna/frameshop-storefront/internal/product/repository"
	prodUCPkg "github.com/fekuna/frameshop-storefront/internal/product/usecase"

	profileH "github.com/fekuna/frameshop-storefront/internal/profile/handler"
	profileRepoPkg "github.com/fekuna/frameshop-storefront/internal/profile/repository"
	profileUCPkg "github.com/fekuna/frameshop-storefront/internal/profile/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to the data backend
	client, err := driver.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open data backend", zap.Error(err))
	}
	defer client.Close()

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewCategoryRepository(client)
	prodRepo := prodRepoPkg.NewProductRepository(client)
	orderRepo := orderRepoPkg.NewOrderRepository(client)
	profileRepo := profileRepoPkg.NewProfileRepository(client)

	// 5. Initialize Redis
	var redisClient *cache.RedisClient
	var cartStore cart.Store = cartStorePkg.NewMemoryStore(cfg.Cart.TTL)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cartStore = cartStorePkg.NewRedisStore(redisClient, cfg.Cart.TTL)
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 6. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, product search falls back to the backend", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Media and mail
	var uploader media.Uploader = media.Disabled{}
	if cfg.Cloudinary.CloudName != "" {
		cld, err := media.NewCloudinaryUploader(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			appLogger.Warn("Could not configure Cloudinary, image upload disabled", zap.Error(err))
		} else {
			uploader = cld
		}
	}

	var mailer mail.Sender = mail.NewLogSender(appLogger)
	if cfg.SendGrid.APIKey != "" {
		mailer = mail.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName, appLogger)
	}

	// 8. Shop sessions
	policy, err := shop.ParseStalePolicy(cfg.Shop.StalePolicy)
	if err != nil {
		appLogger.Fatal("Invalid shop configuration", zap.Error(err))
	}
	hub := auth.NewHub()
	registry := shop.NewRegistry(client, hub, shop.NewInbox(20), shop.RegistryConfig{
		Policy:       policy,
		FetchTimeout: cfg.Shop.FetchTimeout,
		IdleTTL:      cfg.Shop.SessionIdleTTL,
	}, appLogger)
	defer registry.Close()
	go registry.Run(ctx)

	// 9. Catalog change events
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.CatalogTopic,
		})
		defer producer.Close()
		publisher = events.NewKafkaPublisher(producer, appLogger)

		// Every instance must see every event, so the default group is per process.
		groupID := cfg.Kafka.GroupID
		if groupID == "" {
			groupID = "storefront-" + uuid.New().String()
		}
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.CatalogTopic,
			GroupID: groupID,
		})
		defer consumer.Close()

		catalogListener := shopListenerPkg.NewCatalogListener(consumer, registry, appLogger)
		go catalogListener.Start(ctx)
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.CatalogTopic))
	} else {
		catalogListener := shopListenerPkg.NewCatalogListener(nil, registry, appLogger)
		publisher = events.NewLocalPublisher(catalogListener.Handle)
	}

	// 10. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, publisher, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, esClient, uploader, publisher, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartStore, prodUC, appLogger)
	checkoutUC := checkoutUCPkg.NewCheckoutUseCase(cartStore, orderRepo, mailer, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, prodUC, appLogger)
	profileUC := profileUCPkg.NewProfileUseCase(profileRepo, prodUC, appLogger)

	if esClient != nil {
		go func() {
			if n, err := prodUC.Reindex(ctx); err != nil {
				appLogger.Warn("Initial product reindex failed", zap.Error(err))
			} else {
				appLogger.Info("Indexed products", zap.Int("count", n))
			}
		}()
	}

	// 11. Initialize Handlers
	verifier := auth.NewVerifier(cfg.JWT.SecretKey, client, appLogger)
	authHandler := authH.NewAuthHandler(verifier, hub, appLogger)
	shopHandler := shopH.NewShopHandler(registry, appLogger)
	catHandler := catH.NewCategoryHandler(catUC, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	cartHandler := cartH.NewCartHandler(cartUC, appLogger)
	checkoutHandler := checkoutH.NewCheckoutHandler(checkoutUC, profileUC, appLogger)
	orderHandler := orderH.NewOrderHandler(orderUC, appLogger)
	profileHandler := profileH.NewProfileHandler(profileUC, appLogger)

	router := httpserver.NewRouter(
		httpserver.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AdminRateLimit: cfg.Server.AdminRateLimit,
		},
		httpserver.Handlers{
			Public: []httpserver.Routes{authHandler, shopHandler, catHandler, prodHandler, cartHandler, checkoutHandler},
			User:   []httpserver.Routes{orderHandler, profileHandler},
			Admin:  []httpserver.AdminRoutes{catHandler, prodHandler, orderHandler},
		},
		httpserver.Deps{
			Verifier: verifier,
			Backend:  client,
			Redis:    redisClient,
			Logger:   appLogger,
		},
	)

	// 12. Start HTTP Server
	httpServer := &http.Server{
		Addr:    listenAddr(cfg.Server.HTTPPort),
		Handler: router,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 13. Start gRPC health server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	checker := health.NewChecker(client, 0, appLogger)
	checker.Register(grpcServer)
	go checker.Run(ctx)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
