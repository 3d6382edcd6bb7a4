package contracts

import (
	"context"

	"github.com/google/uuid"
)

// TierStats summarizes one tier bucket in a distribution query
type TierStats struct {
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}

// ScoreRow is a lead's current score, used by batch re-tier passes
type ScoreRow struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	TotalScore int
	Tier       ScoreTier
}

// ScoreStore persists lead scores
type ScoreStore interface {
	// GetPreviousScore returns the most recent total score for a lead.
	// The bool is false when the lead has never been scored.
	GetPreviousScore(ctx context.Context, leadID uuid.UUID) (int, bool, error)

	// Save inserts a new score row
	Save(ctx context.Context, score *LeadScore) error

	// ListByTier returns the latest scores in a tier, highest first
	ListByTier(ctx context.Context, userID uuid.UUID, tier ScoreTier, limit int) ([]*LeadScore, error)

	// TierDistribution returns counts and averages per tier for a user
	TierDistribution(ctx context.Context, userID uuid.UUID) (map[ScoreTier]TierStats, error)

	// ListCurrent pages through the latest score row per lead
	ListCurrent(ctx context.Context, limit, offset int) ([]ScoreRow, error)

	// UpdateTier rewrites the tier of a stored score row
	UpdateTier(ctx context.Context, scoreID uuid.UUID, tier ScoreTier) error
}

// SignalStore persists detected signals
type SignalStore interface {
	// SaveBatch stores signals best-effort and returns how many were
	// saved. Individual failures are skipped, not propagated.
	SaveBatch(ctx context.Context, signals []*SignalEvent) (int, error)

	// GetActiveByLead returns unexpired signals attached to a lead
	GetActiveByLead(ctx context.Context, leadID uuid.UUID) ([]*SignalEvent, error)

	// GetActiveByDomain returns unexpired signals for a company domain
	GetActiveByDomain(ctx context.Context, domain string) ([]*SignalEvent, error)

	// PurgeExpired deletes expired signals and returns how many
	PurgeExpired(ctx context.Context) (int64, error)
}

// ICPStore reads ideal customer profiles
type ICPStore interface {
	// GetByID returns the profile, or nil when it does not exist or
	// belongs to another user
	GetByID(ctx context.Context, id, userID uuid.UUID) (*ICPProfile, error)

	// GetDefaultForUser returns the user's default profile, or nil
	GetDefaultForUser(ctx context.Context, userID uuid.UUID) (*ICPProfile, error)
}

// SnapshotStore persists enriched company snapshots
type SnapshotStore interface {
	// GetLatestByDomain returns the newest snapshot for a domain, or
	// nil when the domain has never been enriched
	GetLatestByDomain(ctx context.Context, domain string) (*CompanySnapshot, error)

	// Save inserts a new snapshot row
	Save(ctx context.Context, snapshot *CompanySnapshot) error
}
