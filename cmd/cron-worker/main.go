package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velora-health/medstock-backend/internal/cron"
	"github.com/velora-health/medstock-backend/internal/inventory"
	"github.com/velora-health/medstock-backend/internal/lowstock"
	"github.com/velora-health/medstock-backend/internal/notifications"
	"github.com/velora-health/medstock-backend/pkg/config"
	"github.com/velora-health/medstock-backend/pkg/db"
	"github.com/velora-health/medstock-backend/pkg/logger"
	"github.com/velora-health/medstock-backend/pkg/metrics"
	"github.com/velora-health/medstock-backend/pkg/migrate"
	"github.com/velora-health/medstock-backend/pkg/outbox"
	"github.com/velora-health/medstock-backend/pkg/redis"
)

const lockKeyFormat = "ms:cron-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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
			logg.Error(context.Background(), "error closing redis client", err)
		}
	}()

	cronMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)
	pipelineMetrics := metrics.NewAlertPipelineMetrics(prometheus.DefaultRegisterer)

	registry, err := buildJobs(cfg, logg, dbClient, pipelineMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, fmt.Sprintf(lockKeyFormat, cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to build cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Alerting.ScanInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "cron-worker",
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func buildJobs(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, pipelineMetrics *metrics.AlertPipelineMetrics) (*cron.Registry, error) {
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	alertRepo := lowstock.NewRepository(dbClient.DB())
	notificationRepo := notifications.NewRepository(dbClient.DB())
	outboxRepo := outbox.NewRepository(dbClient.DB())

	detector, err := lowstock.NewDetector(inventoryRepo, cfg.Alerting.ScanBatchSize)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	pipeline, err := lowstock.NewService(lowstock.ServiceParams{
		Logger:            logg,
		DB:                dbClient,
		Detector:          detector,
		Items:             inventoryRepo,
		Alerts:            alertRepo,
		Outbox:            outbox.NewService(outboxRepo, logg),
		Metrics:           pipelineMetrics,
		Cooldown:          cfg.Alerting.CooldownWindow,
		FallbackRecipient: cfg.Alerting.FallbackRecipient,
		ItemStepTimeout:   cfg.Alerting.ItemStepTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("low stock pipeline: %w", err)
	}

	scanJob, err := cron.NewLowStockJob(cron.LowStockJobParams{
		Logger:   logg,
		Pipeline: pipeline,
	})
	if err != nil {
		return nil, fmt.Errorf("low stock job: %w", err)
	}

	alertRetention, err := cron.NewAlertRetentionJob(cron.AlertRetentionJobParams{
		Logger:     logg,
		Repository: alertRepo,
		Retention:  cfg.Alerting.RetentionDays,
	})
	if err != nil {
		return nil, fmt.Errorf("alert retention job: %w", err)
	}

	notificationCleanup, err := cron.NewNotificationCleanupJob(cron.NotificationCleanupJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: notificationRepo,
		Retention:  cfg.Alerting.NotificationRetentionDays,
	})
	if err != nil {
		return nil, fmt.Errorf("notification cleanup job: %w", err)
	}

	outboxRetention, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outboxRepo,
	})
	if err != nil {
		return nil, fmt.Errorf("outbox retention job: %w", err)
	}

	return cron.NewRegistry(scanJob, alertRetention, notificationCleanup, outboxRetention), nil
}
