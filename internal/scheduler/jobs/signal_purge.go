package jobs

import (
	"context"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// SignalPurgeJob deletes expired signals so stale intent never leaks
// into scoring
type SignalPurgeJob struct {
	signals contracts.SignalStore
	logger  *logger.Logger
}

// NewSignalPurgeJob creates a new signal purge job
func NewSignalPurgeJob(signals contracts.SignalStore, log *logger.Logger) *SignalPurgeJob {
	return &SignalPurgeJob{
		signals: signals,
		logger:  log,
	}
}

// Name returns the job name
func (j *SignalPurgeJob) Name() string {
	return "signal_purge"
}

// Schedule returns the cron schedule (daily at 03:00)
func (j *SignalPurgeJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run executes the purge
func (j *SignalPurgeJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled signal purge")

	purged, err := j.signals.PurgeExpired(ctx)
	if err != nil {
		return err
	}

	if purged > 0 {
		j.logger.WithField("purged", purged).Info("Expired signals purged")
	}

	return nil
}
