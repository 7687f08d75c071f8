package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rfarias/vehicle-sales-backend/api/routes"
	"github.com/rfarias/vehicle-sales-backend/internal/seed"
	"github.com/rfarias/vehicle-sales-backend/internal/vehicles"
	"github.com/rfarias/vehicle-sales-backend/pkg/config"
	"github.com/rfarias/vehicle-sales-backend/pkg/db"
	"github.com/rfarias/vehicle-sales-backend/pkg/logger"
	"github.com/rfarias/vehicle-sales-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "catalog"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalog",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	vehicleRepo := vehicles.NewRepository(dbClient.DB())

	if cfg.App.IsDev() && cfg.FeatureFlags.SeedOnBoot {
		if err := seed.Run(context.Background(), vehicleRepo, logg); err != nil {
			logg.Error(context.Background(), "failed to seed catalog", err)
			os.Exit(1)
		}
	}

	vehicleService, err := vehicles.NewService(vehicleRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicle service", err)
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
	logg.Info(ctx, "starting catalog server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewCatalogRouter(cfg, logg, dbClient, vehicleService, prometheus.NewRegistry()),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "catalog server stopped unexpectedly", err)
		os.Exit(1)
	}
}
