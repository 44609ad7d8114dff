package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/velora-health/medstock-backend/api/routes"
	"github.com/velora-health/medstock-backend/internal/inventory"
	"github.com/velora-health/medstock-backend/internal/lowstock"
	"github.com/velora-health/medstock-backend/internal/notifications"
	"github.com/velora-health/medstock-backend/pkg/config"
	"github.com/velora-health/medstock-backend/pkg/db"
	"github.com/velora-health/medstock-backend/pkg/logger"
	"github.com/velora-health/medstock-backend/pkg/migrate"
	"github.com/velora-health/medstock-backend/pkg/outbox"
	"github.com/velora-health/medstock-backend/pkg/redis"
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

	alertsService, err := buildAlertsService(cfg, logg, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create alerts service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Registry:      promRegistry,
			Alerts:        alertsService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildAlertsService wires the full pipeline service; the API only calls its
// read path, the scan itself runs in cmd/cron-worker.
func buildAlertsService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*lowstock.Service, error) {
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	detector, err := lowstock.NewDetector(inventoryRepo, cfg.Alerting.ScanBatchSize)
	if err != nil {
		return nil, err
	}
	return lowstock.NewService(lowstock.ServiceParams{
		Logger:            logg,
		DB:                dbClient,
		Detector:          detector,
		Items:             inventoryRepo,
		Alerts:            lowstock.NewRepository(dbClient.DB()),
		Outbox:            outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
		Cooldown:          cfg.Alerting.CooldownWindow,
		FallbackRecipient: cfg.Alerting.FallbackRecipient,
		ItemStepTimeout:   cfg.Alerting.ItemStepTimeout,
	})
}
