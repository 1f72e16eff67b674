package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/avelinestudio/aveline-backend/api/controllers"
	"github.com/avelinestudio/aveline-backend/api/routes"
	"github.com/avelinestudio/aveline-backend/internal/catalog"
	"github.com/avelinestudio/aveline-backend/internal/cms"
	"github.com/avelinestudio/aveline-backend/internal/media"
	"github.com/avelinestudio/aveline-backend/internal/orders"
	"github.com/avelinestudio/aveline-backend/internal/session"
	"github.com/avelinestudio/aveline-backend/pkg/config"
	"github.com/avelinestudio/aveline-backend/pkg/db"
	"github.com/avelinestudio/aveline-backend/pkg/firestore"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
	"github.com/avelinestudio/aveline-backend/pkg/metrics"
	"github.com/avelinestudio/aveline-backend/pkg/migrate"
	"github.com/avelinestudio/aveline-backend/pkg/redis"
	"github.com/avelinestudio/aveline-backend/pkg/shopify"
	"github.com/avelinestudio/aveline-backend/pkg/storage/gcs"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	fsClient, err := firestore.New(ctx, cfg.Firestore, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap firestore", err)
		os.Exit(1)
	}
	defer func() {
		if err := fsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing firestore", err)
		}
	}()

	gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	syncMetrics := metrics.NewSyncStoreMetrics(registry)
	platformMetrics := metrics.NewPlatformMetrics(registry)

	shopifyClient, err := shopify.NewClient(ctx, cfg.Shopify, logg, platformMetrics)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap commerce client", err)
		os.Exit(1)
	}

	sessions := session.NewRegistry(redisClient, fsClient, logg, syncMetrics, cfg.Session.LocalTTL)
	defer sessions.Close()

	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if released := sessions.Sweep(cfg.Session.MaxIdle); released > 0 {
					logg.Info(logg.WithField(ctx, "released", released), "session.sweep")
				}
			}
		}
	}()

	deps := routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Registry: sessions,
		Catalog:  catalog.NewService(shopifyClient, logg),
		Admin:    catalog.NewAdminService(shopifyClient, logg),
		CMS:      cms.NewService(fsClient, logg),
		Media:    media.NewService(gcsClient, logg, cfg.Media.MaxUploadMB),
		Orders:   orders.NewService(orders.NewRepository(dbClient), logg),
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
			"storage":  gcsClient,
		},
		Gatherer: registry,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(context.Background(), "api server stopped")
	}
}
