package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/minexafrica/tradeflow-backend/api/routes"
	"github.com/minexafrica/tradeflow-backend/internal/audit"
	"github.com/minexafrica/tradeflow-backend/internal/flow"
	"github.com/minexafrica/tradeflow-backend/internal/mirror"
	"github.com/minexafrica/tradeflow-backend/internal/providers"
	"github.com/minexafrica/tradeflow-backend/internal/steps"
	"github.com/minexafrica/tradeflow-backend/internal/store"
	"github.com/minexafrica/tradeflow-backend/pkg/config"
	"github.com/minexafrica/tradeflow-backend/pkg/db"
	"github.com/minexafrica/tradeflow-backend/pkg/logger"
	"github.com/minexafrica/tradeflow-backend/pkg/metrics"
	"github.com/minexafrica/tradeflow-backend/pkg/migrate"
	pkgpubsub "github.com/minexafrica/tradeflow-backend/pkg/pubsub"
	"github.com/minexafrica/tradeflow-backend/pkg/redis"
	"gorm.io/gorm"
)

const shutdownGrace = 15 * time.Second

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pm := metrics.NewProviderMetrics(registry)

	var closers []func() error

	var dbClient *db.Client
	switch {
	case cfg.FeatureFlags.UseSQLite:
		dbClient, err = db.NewSQLite(context.Background(), "tradeflow.db", logg)
	case cfg.DB.Enabled():
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	if dbClient != nil {
		closers = append(closers, dbClient.Close)
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
	}

	var pubsubClient *pubsub.Client
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err = pkgpubsub.New(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		closers = append(closers, pubsubClient.Close)
	}

	st := store.New()
	if cfg.FeatureFlags.SeedDemoData {
		store.SeedDemo(st)
		logg.Info(context.Background(), "demo records seeded")
	}

	aud := audit.NewLog()
	reg := providers.NewRegistry(cfg, pubsubClient, logg, pm)

	var mirrorConn *gorm.DB
	if dbClient != nil {
		mirrorConn = dbClient.DB()
	}
	mir := mirror.New(mirrorConn, logg)

	var flowOpts []flow.Option
	if cfg.FeatureFlags.StrictStages {
		flowOpts = append(flowOpts, flow.WithStrictOrder())
	}
	flowCtl, err := flow.NewController(st, reg, aud, mir, logg, flowOpts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create stage controller", err)
		os.Exit(1)
	}
	stepsCtl, err := steps.NewController(st, reg, aud, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create step controller", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Store:    st,
		Audit:    aud,
		Flow:     flowCtl,
		Steps:    stepsCtl,
		Provider: reg,
		Mirror:   mir,
		Registry: registry,
	}
	if redisClient != nil {
		deps.Idem = redisClient
		deps.Pingers = append(deps.Pingers, redisClient)
	}
	if dbClient != nil {
		deps.Pingers = append(deps.Pingers, dbClient)
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

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	var closeErr error
	for _, closeFn := range closers {
		closeErr = multierr.Append(closeErr, closeFn())
	}
	if closeErr != nil {
		logg.Error(ctx, "error releasing resources", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
