package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/config"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/handler"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/metadata"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/repository"
	"github.com/divyanshOG/Credit-Card-Fraud-Detection-Project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting Fraud Detection API...")

	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Load model artifacts. A failed load is terminal until restart: the
	// server still comes up, but every prediction fails fast.
	store, err := metadata.Load(cfg.Model.Path, cfg.Model.MetadataPath, logger)
	if err != nil {
		logger.Error("Failed to load model artifacts, serving degraded", zap.Error(err))
		store = nil
	}

	// Open the transaction log once the model loaded. A log that fails to
	// open is not fatal: predictions keep flowing, unpersisted.
	var repo repository.TransactionRepository
	if store != nil {
		os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755)

		repo, err = repository.NewTransactionRepository(cfg.Database.Path, logger)
		if err != nil {
			logger.Error("Failed to open transaction log, predictions will not be persisted", zap.Error(err))
			repo = nil
		} else {
			defer repo.Close()
		}
	}

	// Initialize service
	predictor := service.NewPredictor(store, repo, logger)

	// Initialize HTTP handler
	apiHandler := handler.NewHandler(predictor, logger)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Tag every request with an id for log correlation
	router.Use(func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	})

	// Register routes
	apiHandler.RegisterRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("Server starting", zap.String("address", serverAddr))

	// Graceful shutdown
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Fraud Detection API is running",
		zap.String("port", cfg.Server.Port),
		zap.Bool("model_loaded", store != nil))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
