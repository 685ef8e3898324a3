package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mobelhaus/showroom-backend/api/routes"
	"github.com/mobelhaus/showroom-backend/internal/catalog"
	"github.com/mobelhaus/showroom-backend/internal/invoices"
	"github.com/mobelhaus/showroom-backend/internal/media"
	"github.com/mobelhaus/showroom-backend/pkg/config"
	"github.com/mobelhaus/showroom-backend/pkg/db"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
	"github.com/mobelhaus/showroom-backend/pkg/metrics"
	"github.com/mobelhaus/showroom-backend/pkg/migrate"
	"github.com/mobelhaus/showroom-backend/pkg/redis"
	"github.com/mobelhaus/showroom-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cacheMetrics := metrics.NewCacheMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		catalog.NewSubcategoryRepository(dbClient.DB()),
		dbClient,
		redisClient,
		cfg.Catalog,
		cacheMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	invoiceService, err := invoices.NewService(invoices.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	// media is optional; the admin upload route reports it unavailable
	// when no bucket is configured
	var gcsClient *gcs.Client
	var mediaService media.Service
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap object storage", err)
			os.Exit(1)
		}
		mediaService, err = media.NewService(gcsClient, cfg.Media, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "no gcs bucket configured; media uploads disabled")
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
	logg.Info(ctx, "starting api server")

	var gcsPinger gcs.Pinger
	if gcsClient != nil {
		gcsPinger = gcsClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			GCS:      gcsPinger,
			Catalog:  catalogService,
			Invoices: invoiceService,
			Media:    mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
