package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/adscope/adscope-backend/api/routes"
	"github.com/adscope/adscope-backend/internal/insights"
	"github.com/adscope/adscope-backend/internal/insights/query"
	"github.com/adscope/adscope-backend/internal/insights/worker"
	"github.com/adscope/adscope-backend/pkg/bigquery"
	"github.com/adscope/adscope-backend/pkg/config"
	"github.com/adscope/adscope-backend/pkg/db"
	"github.com/adscope/adscope-backend/pkg/logger"
	"github.com/adscope/adscope-backend/pkg/metrics"
	"github.com/adscope/adscope-backend/pkg/migrate"
	"github.com/adscope/adscope-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	// BigQuery is optional for the API: without it population averages are
	// derived locally from the stored rows.
	var averagesService query.AveragesService
	bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
	if err != nil {
		logg.Warn(ctx, fmt.Sprintf("bigquery unavailable, averages derive locally: %v", err))
		bqClient = nil
	} else {
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(ctx, "error closing bigquery client", err)
			}
		}()
		averagesService, err = query.NewAveragesService(bqClient)
		requireResource(ctx, logg, "averages query service", err)
	}

	insightsRepo := insights.NewRepository(dbClient.DB())
	insightsService, err := insights.NewService(insightsRepo, averagesService, redisClient, logg, cfg.Insights)
	requireResource(ctx, logg, "insights service", err)

	snapshotHandler, err := worker.NewSnapshotHandler(insightsRepo)
	requireResource(ctx, logg, "snapshot handler", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	deps := routes.Dependencies{
		Logger:          logg,
		HTTPMetrics:     httpMetrics,
		MetricsRegistry: registry,
		InsightsService: insightsService,
		SnapshotHandler: snapshotHandler,
		DB:              dbClient,
		Redis:           redisClient,
	}
	if bqClient != nil {
		deps.BigQuery = bqClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
		logg.Info(ctx, "api server stopped")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
