package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/bootstrap"
	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/logging"
)

// wipe drops every table of the configured database
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	conn, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect", zap.Error(err))
	}
	defer func() { _ = conn.Close() }()

	logger.Info("🧹 wiping database", zap.String("dialect", string(conn.Dialect())))
	if err := bootstrap.DropSchema(ctx, conn, logger); err != nil {
		logger.Fatal("failed to drop schema", zap.Error(err))
	}
	logger.Info("✨ database wiped")
}
