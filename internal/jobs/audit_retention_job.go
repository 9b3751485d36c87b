package jobs

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/services"

	"github.com/robfig/cron/v3"
)

// AuditRetentionJob trims the audit trail down to the configured horizon.
// Runs nightly at 03:00; the exact hour only matters for keeping the sweep
// out of peak ordering traffic.
type AuditRetentionJob struct {
	recorder  *services.AuditRecorder
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAuditRetentionJob creates the retention sweep over the given recorder.
// Retention is how far back entries are kept, e.g. 90 days.
func NewAuditRetentionJob(recorder *services.AuditRecorder, retention time.Duration, logger *slog.Logger) *AuditRetentionJob {
	return &AuditRetentionJob{
		recorder:  recorder,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With("component", "audit_retention_job"),
	}
}

// Start schedules the nightly sweep.
func (j *AuditRetentionJob) Start() error {
	_, err := j.cron.AddFunc("0 3 * * *", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(-j.retention)

		removed, err := j.recorder.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			j.logger.ErrorContext(ctx, "Audit retention sweep failed", "error", err)
			return
		}

		j.logger.InfoContext(ctx, "Audit retention sweep completed",
			"removed", removed,
			"cutoff", cutoff)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Audit retention job started (running nightly)")
	return nil
}

// Stop stops the retention job.
func (j *AuditRetentionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Audit retention job stopped")
}
