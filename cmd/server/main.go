package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	adminhttp "github.com/lhpaul/finadmin/internal/admin/adapter/http"

	"github.com/lhpaul/finadmin/internal/admin/config"
	"github.com/lhpaul/finadmin/internal/di"
	"github.com/lhpaul/finadmin/internal/shared/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	appLogger := logger.NewWithConfig(cfg.LogLevel, cfg.LogFormat)
	appLogger.Info("starting finadmin")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDBURI))
	if err != nil {
		appLogger.Errorf("connecting to mongodb: %v", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Errorf("disconnecting mongodb: %v", err)
		}
	}()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Errorf("pinging mongodb: %v", err)
		os.Exit(1)
	}
	appLogger.Info("mongodb connection established")

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			appLogger.Warnf("redis unreachable, events disabled: %v", err)
			redisClient = nil
		}
	}

	container, err := di.New(cfg, mongoClient.Database(cfg.DatabaseName), redisClient, appLogger)
	if err != nil {
		appLogger.Errorf("wiring application: %v", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := container.Close(closeCtx); err != nil {
			appLogger.Errorf("closing container: %v", err)
		}
	}()

	app := adminhttp.NewApp(container.Handlers)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()
	appLogger.Infof("listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		appLogger.Errorf("server stopped: %v", err)
		os.Exit(1)
	case sig := <-quit:
		appLogger.Infof("received %s, shutting down", sig)
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		appLogger.Errorf("graceful shutdown failed: %v", err)
	}
	appLogger.Info("shutdown complete")
}
