package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/adapter/credentials"
	"github.com/nutrilab/imc-registry/internal/config"
	"github.com/nutrilab/imc-registry/internal/domain/bmi"
	"github.com/nutrilab/imc-registry/internal/infrastructure/database"
	httpServer "github.com/nutrilab/imc-registry/internal/infrastructure/http"
	"github.com/nutrilab/imc-registry/internal/infrastructure/sweep"
	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// BMI engine with configured thresholds
	thresholds, err := bmi.ParseThresholds(cfg.BMI.LowThreshold, cfg.BMI.HighThreshold)
	if err != nil {
		zapLogger.Fatal("Invalid BMI thresholds", zap.Error(err))
	}
	engine := bmi.NewEngine(thresholds)

	hasher := credentials.NewBcryptHasher(0)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Lifetime)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background maintenance sweeps
	sweeper := sweep.NewSweeper(repos.Project, repos.Audit, cfg.Sweep, zapLogger)
	go sweeper.Run(ctx)

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, zapLogger, repos, engine, hasher, jwtManager)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")
	cancel()

	if err := httpSrv.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
