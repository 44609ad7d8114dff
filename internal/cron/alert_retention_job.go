package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/velora-health/medstock-backend/pkg/logger"
)

const alertRetentionDays = 90

type AlertRetentionJobParams struct {
	Logger     *logger.Logger
	Repository alertRetentionRepo
	Retention  int
}

type alertRetentionRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewAlertRetentionJob builds the job that prunes old alert history. The
// retention horizon is far past any cooldown window, so pruning never changes
// a dedup decision.
func NewAlertRetentionJob(params AlertRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = alertRetentionDays
	}
	return &alertRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type alertRetentionJob struct {
	logg      *logger.Logger
	repo      alertRetentionRepo
	retention int
	now       func() time.Time
}

func (j *alertRetentionJob) Name() string { return "alert-retention" }

func (j *alertRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("alert retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "alert retention cleanup complete")
	return nil
}
