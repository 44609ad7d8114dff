package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/velora-health/medstock-backend/internal/inventory"
	"github.com/velora-health/medstock-backend/internal/lowstock"
	"github.com/velora-health/medstock-backend/pkg/config"
	"github.com/velora-health/medstock-backend/pkg/db"
	"github.com/velora-health/medstock-backend/pkg/logger"
	"github.com/velora-health/medstock-backend/pkg/migrate"
	"github.com/velora-health/medstock-backend/pkg/outbox"
)

// cmd/scan runs a single low-stock scan and exits. Useful for backfills and
// for kicking a scan outside the cron-worker cadence.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "scan"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "scan"

	logg = logger.New(logger.Options{
		ServiceName: "scan",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	detector, err := lowstock.NewDetector(inventoryRepo, cfg.Alerting.ScanBatchSize)
	requireResource(ctx, logg, "detector", err)

	pipeline, err := lowstock.NewService(lowstock.ServiceParams{
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
	requireResource(ctx, logg, "low stock pipeline", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	logg.Info(runCtx, "starting one-shot low stock scan")

	summary, err := pipeline.Run(runCtx)
	runCtx = logg.WithFields(runCtx, map[string]any{
		"scanned":    summary.Scanned,
		"emitted":    summary.Emitted,
		"suppressed": summary.Suppressed,
		"race_noops": summary.RaceNoOps,
		"failed":     summary.Failed,
	})
	if err != nil {
		logg.Error(runCtx, "scan finished with failures", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "scan complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
