package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kingrain94/restaurant-saas/docs"
	"github.com/kingrain94/restaurant-saas/internal/api"
	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/middleware"
	"github.com/kingrain94/restaurant-saas/internal/repository/composite"
	"github.com/kingrain94/restaurant-saas/internal/service"
	"github.com/kingrain94/restaurant-saas/internal/service/cache"
	"github.com/kingrain94/restaurant-saas/internal/service/pubsub"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/internal/tenancy"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// @title           Restaurant SaaS API
// @version         1.0
// @description     Multi-tenant restaurant ordering platform.

// @host      localhost:3000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		appLogger.Fatal("Failed to load config", err)
	}
	if cfg.JWTSecretKey == "" {
		appLogger.Fatal("JWT_SECRET_KEY is required", fmt.Errorf("missing JWT secret"))
	}

	ctx := context.Background()

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()

	appLogger.Info("Database connections established - writer and reader connected")

	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}

	redisClient, err := config.DefaultRedisConfig().GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)
	if cfg.AutoMigrate {
		if err := repo.Migrate(ctx); err != nil {
			appLogger.Fatal("Failed to migrate database", err)
		}
		appLogger.Info("Database schema migrated")
	}

	redisPubSub := pubsub.NewRedisPubSub(redisClient, appLogger)

	tenantService := service.NewTenantService(repo, cache.NewTenantCache(redisClient, cfg.TenantCacheTTL), appLogger)
	services := api.Services{
		Tenants:    tenantService,
		Users:      service.NewUserService(repo),
		Categories: service.NewCategoryService(repo),
		Products:   service.NewProductService(repo, sqsService, appLogger),
		Customers:  service.NewCustomerService(repo),
		Orders:     service.NewOrderService(repo, sqsService, redisPubSub, cfg, appLogger),
		Exports:    service.NewExportService(repo, sqsService, config.DefaultS3Config().ExportPrefix),
		Events:     redisPubSub,
	}

	mw := api.Middlewares{
		Auth:       middleware.NewAuthMiddleware(cfg),
		Tenant:     middleware.NewTenantMiddleware(tenancy.NewResolver(cfg.MainDomainAliases), tenantService, cfg.TrustEdgeHeaders, appLogger),
		RateLimit:  middleware.NewRateLimitMiddleware(redisClient, cfg, appLogger),
		Validation: middleware.NewValidationMiddleware(appLogger),
	}

	server := api.NewServer(services, mw, cfg.GlobalRateLimit, cfg.IsProduction(), appLogger)
	server.StartWebSocketHub()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS(cfg.FrontendURL))

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.ServerPort)
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http"}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	apiGroup := router.Group("/api")
	server.SetupRoutes(apiGroup)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		appLogger.Infof("API listening on :%d", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	server.StopWebSocketHub()

	appLogger.Info("Server exiting")
	appLogger.Sync()
}
