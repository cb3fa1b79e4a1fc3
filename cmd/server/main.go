package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"playwise/internal/cache"
	"playwise/internal/config"
	"playwise/internal/engine"
	"playwise/internal/handlers"
)

func main() {
	// Load .env file for local development
	_ = godotenv.Load()

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	// Initialize snapshot cache
	snapshotCache, err := cache.New(cfg.ValkeyURL, cfg.CacheMaxItems)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer snapshotCache.Close()

	// Initialize the catalog engine
	eng := engine.New(engine.Options{
		DedupePolicy: cfg.Policy(),
		SkipCapacity: cfg.SkipCapacity,
		UndoHistory:  cfg.UndoHistory,
	})

	handler := handlers.NewCatalogHandler(eng, snapshotCache, cfg.SnapshotTTL)
	router := handlers.SetupRouter(handler)

	slog.Info("Starting server", "port", cfg.Port, "dedupe_policy", cfg.DedupePolicy)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
