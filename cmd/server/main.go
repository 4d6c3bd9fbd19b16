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

	"github.com/nileshk/optionpulse-go/internal/api"
	"github.com/nileshk/optionpulse-go/internal/api/handlers"
	"github.com/nileshk/optionpulse-go/internal/cache"
	"github.com/nileshk/optionpulse-go/internal/chaindata"
	"github.com/nileshk/optionpulse-go/internal/config"
	"github.com/nileshk/optionpulse-go/internal/database"
	"github.com/nileshk/optionpulse-go/internal/logging"
	"github.com/nileshk/optionpulse-go/internal/services"
)

func main() {
	// Local development overrides; missing file is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.Environment)

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	var provider chaindata.Provider
	if cfg.ChainData.UseSimulator {
		logger.Warn("Using simulated option chain data")
		provider = chaindata.NewSimulator(cfg.ChainData.SimulatorSeed)
	} else {
		provider = chaindata.NewClient(cfg.ChainData)
	}

	repository := database.NewAnalysisRepository(db.Pool)
	analysisCache := cache.NewRedisAnalysisCache(redis.Client, cfg.Analysis.CacheTTLDuration())
	notifier := services.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatIDs, logger)

	analysisService := services.NewAnalysisService(cfg, provider, repository, analysisCache, notifier, logger)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	analysisHandler := handlers.NewAnalysisHandler(analysisService, cfg.Analysis.DefaultVIX)
	api.SetupRoutes(router, db, redis, analysisHandler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
