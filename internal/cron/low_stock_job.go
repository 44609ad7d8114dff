package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/velora-health/medstock-backend/internal/lowstock"
	"github.com/velora-health/medstock-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type lowStockPipeline interface {
	Run(ctx context.Context) (lowstock.Summary, error)
}

// LowStockJobParams configure the daily low stock scan.
type LowStockJobParams struct {
	Logger   *logger.Logger
	Pipeline lowStockPipeline
}

// NewLowStockJob builds the cron job that runs the low stock pipeline.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pipeline == nil {
		return nil, fmt.Errorf("low stock pipeline required")
	}
	return &lowStockJob{
		logg:     params.Logger,
		pipeline: params.Pipeline,
	}, nil
}

type lowStockJob struct {
	logg     *logger.Logger
	pipeline lowStockPipeline
}

func (j *lowStockJob) Name() string { return "low-stock-scan" }

func (j *lowStockJob) Run(ctx context.Context) error {
	summary, err := j.pipeline.Run(ctx)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":    summary.Scanned,
		"emitted":    summary.Emitted,
		"suppressed": summary.Suppressed,
		"race_noops": summary.RaceNoOps,
		"failed":     summary.Failed,
	})
	if err != nil {
		j.logg.Error(logCtx, "low stock scan finished with item failures", err)
		return fmt.Errorf("low stock scan: %w", err)
	}
	j.logg.Info(logCtx, "low stock scan finished")
	return nil
}
