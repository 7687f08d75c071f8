package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rfarias/vehicle-sales-backend/api/controllers"
	"github.com/rfarias/vehicle-sales-backend/api/routes"
	"github.com/rfarias/vehicle-sales-backend/internal/catalog"
	salesvc "github.com/rfarias/vehicle-sales-backend/internal/sales"
	"github.com/rfarias/vehicle-sales-backend/internal/webhooks"
	"github.com/rfarias/vehicle-sales-backend/pkg/config"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
	"github.com/rfarias/vehicle-sales-backend/pkg/mongodb"
	"github.com/rfarias/vehicle-sales-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sales"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sales",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	mongoClient, err := mongodb.NewClient(context.Background(), cfg.Mongo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap mongodb", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logg.Error(context.Background(), "error closing mongodb", err)
		}
	}()

	saleRepo := salesvc.NewRepository(mongoClient)
	if err := saleRepo.EnsureIndexes(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to ensure sale indexes", err)
		os.Exit(1)
	}

	catalogClient := catalog.NewClient(cfg.Catalog)

	deps := map[string]controllers.Pinger{
		"mongodb": mongoClient,
		"catalog": catalogClient,
	}

	var guard *webhooks.IdempotencyGuard
	if cfg.Redis.Enabled() {
		redisClient, err := redis.NewClient(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		deps["redis"] = redisClient

		guard, err = webhooks.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, "payment")
		if err != nil {
			logg.Error(context.Background(), "failed to create idempotency guard", err)
			os.Exit(1)
		}
	}

	var saleService salesvc.Service
	if guard != nil {
		saleService, err = salesvc.NewService(saleRepo, catalogClient, catalogClient, guard, logg)
	} else {
		saleService, err = salesvc.NewService(saleRepo, catalogClient, catalogClient, nil, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create sale service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting sales server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewSalesRouter(cfg, logg, deps, saleService, prometheus.NewRegistry()),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "sales server stopped unexpectedly", err)
		os.Exit(1)
	}
}
