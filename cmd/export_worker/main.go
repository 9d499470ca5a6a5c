package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/repository/postgres"
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

	dbConnections, err := config.NewDatabaseConnections()
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer dbConnections.Close()

	repo := postgres.NewPostgresRepository(dbConnections)

	appLogger.Info("Database connections established for export worker")

	sqsConfig := config.DefaultSQSConfig()
	sqsClient, err := sqsConfig.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to connect to SQS", err)
	}
	sqsService := queue.NewSQSService(sqsClient, sqsConfig)

	s3Config := config.DefaultS3Config()
	s3Client, err := s3Config.GetClient(ctx)
	if err != nil {
		appLogger.Fatal("Failed to create S3 client", err)
	}

	appLogger.Info("SQS and S3 connections established for export worker")

	workerConfig := config.DefaultWorkerConfig()
	exportWorker := worker.NewExportWorker(
		sqsService,
		sqsConfig.ExportQueueURL,
		repo,
		s3Client,
		s3Config.BucketName,
		s3Config.ExportPrefix,
		appLogger,
		workerConfig.ExportWorkers,
		workerConfig.PollInterval,
	)

	exportWorker.Start()
	appLogger.Info("Export worker started")

	// Wait for interrupt signal to gracefully shutdown the worker
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down worker...")
	exportWorker.Stop()
	appLogger.Info("Worker stopped")
	appLogger.Sync()
}
