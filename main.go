package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"travel-marketplace/cmd"
	"travel-marketplace/internal/data/repository"
	"travel-marketplace/internal/wire"
	"travel-marketplace/pkg/broker"
	"travel-marketplace/pkg/cache"
	"travel-marketplace/pkg/database"
	"travel-marketplace/pkg/storage"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using production defaults.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Optional infrastructure, each degrades to a no-op
	rdb := cache.NewRedisClient(ctx, config.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	events := broker.New(config.RabbitMQ.URL, config.RabbitMQ.Exchange, logger)
	defer events.Close()

	store, err := storage.NewDiskStore(config.Upload.Dir, config.Upload.BaseURL)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		Repo:   repos,
		Events: events,
		Store:  store,
		Redis:  rdb,
	}, config, logger)

	go cmd.SessionJanitor(ctx, repos.Session, cmd.JanitorInterval, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
