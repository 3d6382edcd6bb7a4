package jobs

import (
	"context"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// retierBatchSize is how many score rows one pass loads at a time
const retierBatchSize = 500

// RetierJob re-derives the tier of every current score. Tier thresholds
// are code, not data; when they change, stored tiers drift until this
// job realigns them.
type RetierJob struct {
	scores contracts.ScoreStore
	logger *logger.Logger
}

// NewRetierJob creates a new re-tier job
func NewRetierJob(scores contracts.ScoreStore, log *logger.Logger) *RetierJob {
	return &RetierJob{
		scores: scores,
		logger: log,
	}
}

// Name returns the job name
func (j *RetierJob) Name() string {
	return "retier"
}

// Schedule returns the cron schedule (daily at 03:30, after the purge)
func (j *RetierJob) Schedule() string {
	return "0 30 3 * * *"
}

// Run walks all current scores and fixes rows whose stored tier no
// longer matches their total score
func (j *RetierJob) Run(ctx context.Context) error {
	updated := 0
	offset := 0

	for {
		rows, err := j.scores.ListCurrent(ctx, retierBatchSize, offset)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			want := contracts.TierForScore(row.TotalScore)
			if want == row.Tier {
				continue
			}
			if err := j.scores.UpdateTier(ctx, row.ID, want); err != nil {
				j.logger.WithError(err).WithField("score_id", row.ID.String()).
					Warn("Failed to update tier")
				continue
			}
			updated++
		}

		offset += len(rows)
	}

	if updated > 0 {
		j.logger.WithField("updated", updated).Info("Score tiers realigned")
	}

	return nil
}
