package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velora-health/medstock-backend/pkg/logger"
)

type fakeAlertRetentionRepo struct {
	lastCutoff time.Time
	called     int
	err        error
}

func (f *fakeAlertRetentionRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return 12, nil
}

func TestAlertRetentionJobDeletesOldAlerts(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeAlertRetentionRepo{}
	job := newAlertRetentionJob(t, repo)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expectedCutoff := now.UTC().Add(-alertRetentionDays * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
}

func TestAlertRetentionJobHonorsCustomRetention(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeAlertRetentionRepo{}
	jobIface, err := NewAlertRetentionJob(AlertRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
		Retention:  7,
	})
	if err != nil {
		t.Fatalf("NewAlertRetentionJob: %v", err)
	}
	job := jobIface.(*alertRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expectedCutoff := now.UTC().Add(-7 * 24 * time.Hour)
	if !repo.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, repo.lastCutoff)
	}
}

func TestAlertRetentionJobPropagatesError(t *testing.T) {
	repo := &fakeAlertRetentionRepo{err: errors.New("boom")}
	job := newAlertRetentionJob(t, repo)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newAlertRetentionJob(t *testing.T, repo *fakeAlertRetentionRepo) *alertRetentionJob {
	t.Helper()
	jobIface, err := NewAlertRetentionJob(AlertRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewAlertRetentionJob: %v", err)
	}
	job, ok := jobIface.(*alertRetentionJob)
	if !ok {
		t.Fatalf("expected alertRetentionJob, got %T", jobIface)
	}
	return job
}
