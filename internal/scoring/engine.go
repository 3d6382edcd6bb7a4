// Package scoring turns enrichment snapshots and active signals into
// tiered lead scores. The rule math is pure; the engine adds signal
// lookup and score persistence around it.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hekax/outreach-intel/internal/contracts"
	"github.com/hekax/outreach-intel/pkg/logger"
)

// Engine computes and persists lead scores
type Engine struct {
	scores  contracts.ScoreStore
	signals contracts.SignalStore
	logger  *logger.Logger
	now     func() time.Time
}

// NewEngine creates a scoring engine
func NewEngine(scores contracts.ScoreStore, signals contracts.SignalStore, log *logger.Logger) *Engine {
	return &Engine{
		scores:  scores,
		signals: signals,
		logger:  log,
		now:     time.Now,
	}
}

// WithClock overrides the engine's time source
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ScoreRequest carries everything needed to score one lead.
// Company, Contact and ICP are each optional; missing data lowers the
// score but never fails the request.
type ScoreRequest struct {
	LeadID  uuid.UUID
	Company *contracts.CompanySnapshot
	Contact *contracts.ContactSnapshot
	ICP     *contracts.ICPProfile
}

// Compute runs the scoring rules without touching any store
func Compute(req ScoreRequest, signals []*contracts.SignalEvent, now time.Time) *contracts.LeadScore {
	intent, intentParts, activeTypes := scoreIntent(req.Company, signals, now)
	fit, fitParts := scoreFit(req.Company, req.ICP)
	access, accessParts := scoreAccessibility(req.Contact, req.ICP)

	weights := contracts.DefaultWeights()
	var icpID *uuid.UUID
	if req.ICP != nil {
		weights = req.ICP.Weights.Normalized()
		id := req.ICP.ID
		icpID = &id
	}

	weighted := intent*weights.Intent + fit*weights.Fit + access*weights.Accessibility
	total := clampScore(int(math.Round(float64(weighted) / 100.0)))

	return &contracts.LeadScore{
		ID:                 uuid.New(),
		LeadID:             req.LeadID,
		ICPID:              icpID,
		IntentScore:        intent,
		FitScore:           fit,
		AccessibilityScore: access,
		TotalScore:         total,
		Tier:               contracts.TierForScore(total),
		Breakdown: contracts.ScoreBreakdown{
			Intent:        intentParts,
			Fit:           fitParts,
			Accessibility: accessParts,
		},
		ActiveSignals: activeTypes,
		CalculatedAt:  now,
	}
}

// ScoreLead scores a lead and persists the result. Signal and previous
// score lookups are best-effort; a failed save is returned to the
// caller.
func (e *Engine) ScoreLead(ctx context.Context, req ScoreRequest) (*contracts.LeadScore, error) {
	now := e.now()

	// 1. Collect unexpired signals for the lead
	var active []*contracts.SignalEvent
	if e.signals != nil {
		var err error
		active, err = e.signals.GetActiveByLead(ctx, req.LeadID)
		if err != nil {
			e.logger.WithError(err).WithField("lead_id", req.LeadID.String()).
				Warn("Active signal lookup failed, scoring without signals")
			active = nil
		}
	}

	// 2. Run the rules
	score := Compute(req, active, now)

	// 3. Attach the score delta when an earlier score exists
	if e.scores != nil {
		prev, found, err := e.scores.GetPreviousScore(ctx, req.LeadID)
		if err != nil {
			e.logger.WithError(err).WithField("lead_id", req.LeadID.String()).
				Warn("Previous score lookup failed, treating lead as unscored")
		} else if found {
			change := score.TotalScore - prev
			score.PreviousScore = &prev
			score.ScoreChange = &change
		}
	}

	// 4. Persist
	if e.scores != nil {
		if err := e.scores.Save(ctx, score); err != nil {
			return nil, fmt.Errorf("failed to save lead score: %w", err)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"lead_id": req.LeadID.String(),
		"total":   score.TotalScore,
		"tier":    string(score.Tier),
	}).Info("Lead scored")

	return score, nil
}
