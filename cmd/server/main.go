package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/trackforge/internal/bootstrap"
	"anoa.com/trackforge/internal/config"
	"anoa.com/trackforge/internal/modules/achievement/catalog"
	"anoa.com/trackforge/internal/server"
	"anoa.com/trackforge/pkg/database"
	"anoa.com/trackforge/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLogger.Sync()
	undo := appLogger.ReplaceGlobals()
	defer undo()

	db, err := database.Connect(cfg)
	if err != nil {
		appLogger.Fatal("database connection failed", "error", err)
	}

	redisClient, err := database.ConnectRedis(cfg)
	if err != nil {
		appLogger.Fatal("redis connection failed", "error", err)
	}
	if redisClient == nil {
		appLogger.Warn("REDIS_URL not set, live notifications disabled")
	}

	ctx := context.Background()
	if err := bootstrap.Migrate(db); err != nil {
		appLogger.Fatal("migration failed", "error", err)
	}
	if err := bootstrap.SeedAchievements(ctx, db, catalog.Default()); err != nil {
		appLogger.Fatal("failed to seed achievements", "error", err)
	}
	if cfg.AppEnv == "development" {
		if _, err := bootstrap.SeedDemoUser(ctx, db, appLogger); err != nil {
			appLogger.Fatal("failed to seed demo user", "error", err)
		}
	}

	srv, err := server.NewServer(cfg, db, redisClient, appLogger)
	if err != nil {
		appLogger.Fatal("failed to build server", "error", err)
	}

	go func() {
		if err := srv.Run(":" + cfg.Port); err != nil {
			appLogger.Fatal("server exited with error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	appLogger.Info("server stopped")
}
