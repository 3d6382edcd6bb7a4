// Package store implements the persistence interfaces from contracts
// on top of PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hekax/outreach-intel/internal/contracts"
)

// ScoreRepository implements contracts.ScoreStore
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// GetPreviousScore retrieves the most recent total score for a lead
func (r *ScoreRepository) GetPreviousScore(ctx context.Context, leadID uuid.UUID) (int, bool, error) {
	query := `
		SELECT total_score
		FROM lead_scores
		WHERE lead_id = $1
		ORDER BY calculated_at DESC
		LIMIT 1
	`

	var score int
	err := r.pool.QueryRow(ctx, query, leadID).Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// Save inserts a new score row
func (r *ScoreRepository) Save(ctx context.Context, score *contracts.LeadScore) error {
	breakdown, err := json.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	query := `
		INSERT INTO lead_scores (
			id, lead_id, icp_id,
			intent_score, fit_score, accessibility_score, total_score,
			tier, breakdown, active_signals,
			previous_score, score_change, calculated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.pool.Exec(ctx, query,
		score.ID, score.LeadID, score.ICPID,
		score.IntentScore, score.FitScore, score.AccessibilityScore, score.TotalScore,
		string(score.Tier), breakdown, score.ActiveSignals,
		score.PreviousScore, score.ScoreChange, score.CalculatedAt,
	)
	return err
}

// ListByTier returns each lead's latest score within a tier, highest
// total first
func (r *ScoreRepository) ListByTier(ctx context.Context, userID uuid.UUID, tier contracts.ScoreTier, limit int) ([]*contracts.LeadScore, error) {
	query := `
		SELECT id, lead_id, icp_id,
		       intent_score, fit_score, accessibility_score, total_score,
		       tier, breakdown, active_signals,
		       previous_score, score_change, calculated_at
		FROM (
			SELECT DISTINCT ON (ls.lead_id) ls.*
			FROM lead_scores ls
			JOIN leads l ON l.id = ls.lead_id
			WHERE l.user_id = $1
			ORDER BY ls.lead_id, ls.calculated_at DESC
		) latest
		WHERE tier = $2
		ORDER BY total_score DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, string(tier), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanScores(rows)
}

// TierDistribution returns counts and averages per tier for a user's
// latest scores
func (r *ScoreRepository) TierDistribution(ctx context.Context, userID uuid.UUID) (map[contracts.ScoreTier]contracts.TierStats, error) {
	query := `
		SELECT tier, COUNT(*), AVG(total_score)
		FROM (
			SELECT DISTINCT ON (ls.lead_id) ls.tier, ls.total_score
			FROM lead_scores ls
			JOIN leads l ON l.id = ls.lead_id
			WHERE l.user_id = $1
			ORDER BY ls.lead_id, ls.calculated_at DESC
		) latest
		GROUP BY tier
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := make(map[contracts.ScoreTier]contracts.TierStats)
	for rows.Next() {
		var tier string
		var stats contracts.TierStats
		if err := rows.Scan(&tier, &stats.Count, &stats.AvgScore); err != nil {
			return nil, err
		}
		dist[contracts.ScoreTier(tier)] = stats
	}
	return dist, rows.Err()
}

// ListCurrent pages through the latest score row per lead
func (r *ScoreRepository) ListCurrent(ctx context.Context, limit, offset int) ([]contracts.ScoreRow, error) {
	query := `
		SELECT id, lead_id, total_score, tier
		FROM (
			SELECT DISTINCT ON (lead_id) id, lead_id, total_score, tier
			FROM lead_scores
			ORDER BY lead_id, calculated_at DESC
		) latest
		ORDER BY lead_id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []contracts.ScoreRow
	for rows.Next() {
		var row contracts.ScoreRow
		var tier string
		if err := rows.Scan(&row.ID, &row.LeadID, &row.TotalScore, &tier); err != nil {
			return nil, err
		}
		row.Tier = contracts.ScoreTier(tier)
		result = append(result, row)
	}
	return result, rows.Err()
}

// UpdateTier rewrites the tier of a stored score row
func (r *ScoreRepository) UpdateTier(ctx context.Context, scoreID uuid.UUID, tier contracts.ScoreTier) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE lead_scores SET tier = $2 WHERE id = $1`,
		scoreID, string(tier),
	)
	return err
}

func scanScores(rows pgx.Rows) ([]*contracts.LeadScore, error) {
	var scores []*contracts.LeadScore
	for rows.Next() {
		var s contracts.LeadScore
		var tier string
		var breakdown []byte
		if err := rows.Scan(
			&s.ID, &s.LeadID, &s.ICPID,
			&s.IntentScore, &s.FitScore, &s.AccessibilityScore, &s.TotalScore,
			&tier, &breakdown, &s.ActiveSignals,
			&s.PreviousScore, &s.ScoreChange, &s.CalculatedAt,
		); err != nil {
			return nil, err
		}
		s.Tier = contracts.ScoreTier(tier)
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &s.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
			}
		}
		scores = append(scores, &s)
	}
	return scores, rows.Err()
}
