// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mathiyass/velora-pos-backend/internal/api"
	"github.com/Mathiyass/velora-pos-backend/internal/cache"
	"github.com/Mathiyass/velora-pos-backend/internal/config"
	"github.com/Mathiyass/velora-pos-backend/internal/planner"
	"github.com/Mathiyass/velora-pos-backend/internal/repository/postgres"
	"github.com/Mathiyass/velora-pos-backend/internal/service"
	"github.com/Mathiyass/velora-pos-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize plan cache
	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Plan cache unavailable, running without it")
		planCache = cache.NewNoopPlanCache()
	}

	minBatch, err := decimal.NewFromString(cfg.Planner.MinBatchSize)
	if err != nil {
		logger.Log.Warn().Str("value", cfg.Planner.MinBatchSize).Msg("Invalid minimum batch size, ignoring")
		minBatch = decimal.Zero
	}
	autoPlanner := &planner.AutoPlanner{MinBatchSize: minBatch}

	// Initialize repositories and services
	formulaRepo := postgres.NewFormulaRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	services := &api.Services{
		FormulaService:    service.NewFormulaService(formulaRepo, inventoryRepo),
		ProductionService: service.NewProductionService(orderRepo, formulaRepo, inventoryRepo, autoPlanner, planCache),
		InventoryService:  service.NewInventoryService(inventoryRepo, planCache),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
