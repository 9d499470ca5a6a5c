package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/repository/composite"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/internal/worker"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	appLogger := logger.NewLogger(os.Getenv("APP_ENV"))
	ctx := context.Background()

	// Products are re-read from the database before they are indexed
	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()

	osConfig := config.DefaultOpenSearchConfig()
	osClient, err := osConfig.GetClient()
	if err != nil {
		appLogger.Fatal("Failed to connect to OpenSearch", err)
	}
	repo := composite.NewCompositeRepository(dbConnections, osClient, osConfig)

	appLogger.Info("OpenSearch connection established for index worker")

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	appLogger.Info("SQS connection established for index worker")

	workerConfig := config.DefaultWorkerConfig()
	indexWorker := worker.NewIndexWorker(
		sqsService,
		sqsConfig.IndexQueueURL,
		repo,
		appLogger,
		workerConfig.IndexWorkers,
		workerConfig.PollInterval,
	)

	indexWorker.Start()
	appLogger.Info("Index worker started")

	// Wait for interrupt signal to gracefully shutdown the worker
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down worker...")
	indexWorker.Stop()
	appLogger.Info("Worker stopped")
	appLogger.Sync()
}
