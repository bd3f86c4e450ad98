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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/bootstrap"
	"github.com/Lumbe/lcrm-app/internal/config"
	"github.com/Lumbe/lcrm-app/internal/infrastructure/database"
	"github.com/Lumbe/lcrm-app/internal/interfaces/rest"
	"github.com/Lumbe/lcrm-app/internal/interfaces/web"
	"github.com/Lumbe/lcrm-app/internal/logging"
	"github.com/Lumbe/lcrm-app/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Initialize database connection
	conn, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = conn.Close() }()
	logger.Info("✅ database connection established", zap.String("dialect", string(conn.Dialect())))

	if err := bootstrap.InitializeSchema(ctx, conn, logger); err != nil {
		return err
	}
	if err := bootstrap.SeedAdmin(ctx, conn, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Warn("⚠️ failed to seed admin user", zap.Error(err))
	}

	// Run startup assertions to detect design violations
	// By default, violations are fatal (strict mode). Set SKIP_ASSERTIONS=true to skip.
	if os.Getenv("SKIP_ASSERTIONS") != "true" {
		if _, err := bootstrap.RunAssertions(ctx, conn, logger, true); err != nil {
			return fmt.Errorf("startup assertions failed: %w", err)
		}
	} else {
		logger.Warn("⚠️ skipping startup assertions (SKIP_ASSERTIONS=true)")
	}

	// Initialize service manager
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	svcMgr := services.NewServiceManager(conn, cfg, tokens, logger)
	logger.Info("🔧 service manager initialized")

	views, err := web.New()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(svcMgr, rest.RouterOptions{
		Views:         views,
		Logger:        logger,
		Registry:      registry,
		SecureCookies: !cfg.IsDevelopment(),
	})

	// Start scheduled session cleanup
	if err := svcMgr.Scheduler.Start(); err != nil {
		return err
	}
	logger.Info("⏰ scheduler started", zap.String("schedule", cfg.SessionCleanupSchedule))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()
	logger.Info("🚀 LCRM server started",
		zap.String("url", "http://localhost:"+cfg.Port),
		zap.String("leads", "http://localhost:"+cfg.Port+"/leads"),
		zap.String("health", "http://localhost:"+cfg.Port+"/health"))

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Stop background jobs before draining requests
	svcMgr.Scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
