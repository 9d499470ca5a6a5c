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

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/middleware"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/internal/whatsapp"
	"github.com/kingrain94/restaurant-saas/internal/worker"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// The notifier owns the single WhatsApp session. It serves the session's
// HTTP surface and drains the order notification queue.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := config.DefaultWhatsAppConfig()
	appLogger := logger.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	gateway := whatsapp.NewGatewayTransport(cfg, appLogger)
	session := whatsapp.NewSession(gateway, whatsapp.PolicyFromConfig(cfg), appLogger)

	templates, err := whatsapp.NewTemplates(cfg.Currency, cfg.TimeZone)
	if err != nil {
		appLogger.Fatal("Failed to load message templates", err)
	}
	phones := whatsapp.PhoneFormat{CountryCode: cfg.CountryCode, LocalLength: cfg.LocalNumberLength}
	notifier := whatsapp.NewNotifier(session, gateway, templates, phones, cfg.SendRatePerMinute, appLogger)

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	notificationWorker := worker.NewNotificationWorker(
		queue.NewSQSService(sqsClient, sqsConfig),
		sqsConfig.NotificationQueueURL,
		notifier,
		appLogger,
		cfg.QueueWorkers,
		cfg.QueuePollInterval,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewIPRateLimiter(cfg.HTTPRatePerWindow, cfg.HTTPRateWindow)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(limiter.Middleware())
	whatsapp.NewHandler(notifier, session, appLogger).Register(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Notifier listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", err)
		}
	}()

	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.HTTPRateWindow)
		defer ticker.Stop()
		for {
			select {
			case <-stopCleanup:
				return
			case <-ticker.C:
				limiter.Cleanup()
			}
		}
	}()

	// The gateway may take a while to come up; the HTTP surface reports progress meanwhile.
	go session.Start()
	notificationWorker.Start()

	// Wait for interrupt signal to gracefully shutdown the notifier
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down notifier...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	close(stopCleanup)
	notificationWorker.Stop()
	if err := session.Close(shutdownCtx); err != nil {
		appLogger.Error("Failed to close WhatsApp session", err)
	}

	appLogger.Info("Notifier exiting")
	appLogger.Sync()
}
